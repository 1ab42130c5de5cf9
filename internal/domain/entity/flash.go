package entity

// FlashLevel mirrors the message levels rendered by the templates
type FlashLevel string

const (
	FlashSuccess FlashLevel = "success"
	FlashInfo    FlashLevel = "info"
	FlashWarning FlashLevel = "warning"
	FlashError   FlashLevel = "error"
)

// Flash is a one-shot message shown on the next rendered page of a browser session.
type Flash struct {
	Level   FlashLevel `json:"level"`
	Message string     `json:"message"`
}

package discord

// ResponseType is the outbound interaction response kind.
type ResponseType int

const (
	ResponsePong            ResponseType = 1
	ResponseChannelMessage  ResponseType = 4
	ResponseDeferredMessage ResponseType = 5
)

// Response is the JSON body returned to the platform for an interaction.
type Response struct {
	Type ResponseType  `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

type ResponseData struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type Embed struct {
	Image *EmbedImage `json:"image,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

// PongResponse is the fixed handshake acknowledgement.
func PongResponse() *Response {
	return &Response{Type: ResponsePong}
}

// MessageResponse is an immediate visible reply.
func MessageResponse(content string) *Response {
	return &Response{
		Type: ResponseChannelMessage,
		Data: &ResponseData{Content: content},
	}
}

// DeferredResponse tells the caller a real answer arrives later via an edit.
func DeferredResponse() *Response {
	return &Response{Type: ResponseDeferredMessage}
}

// ErrorResponse is an immediate user-visible error reply.
func ErrorResponse(msg string) *Response {
	return MessageResponse("❌ **Error:** " + msg)
}

package dto

// Response — единый конверт всех ответов API:
// ok=true + data либо ok=false + message
type Response struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func Success(data any) Response {
	return Response{OK: true, Data: data}
}

func Error(message string) Response {
	return Response{OK: false, Message: message}
}

package response

// Envelope is the wire format shared by every endpoint: the frontend
// switches on Success and reads Data or Error.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func Msg(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}

func Err(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}

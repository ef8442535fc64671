package proofdto

type UploadProofInput struct {
	OrderID  string
	Filename string
	Payload  []byte
}

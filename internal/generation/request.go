package generation

import "github.com/preplab/ielts-api/internal/schema"

// Attachment is a binary payload sent alongside the instruction text, for
// example a PDF to extract an exam from.
type Attachment struct {
	// MIMEType identifies the payload format (for example "application/pdf").
	MIMEType string

	// Data is the raw payload.
	Data []byte
}

// Request is one deterministic request to the generative endpoint. Prompt
// constructors produce Requests; the gateway consumes them.
type Request struct {
	// Instruction is the full instruction text for the model.
	Instruction string

	// Attachment is an optional binary part sent before the instruction.
	Attachment *Attachment

	// Shape, when non-nil, constrains the model to structured JSON output
	// matching it. Free-text workflows leave it nil.
	Shape *schema.Shape
}

// RawResult is the outcome of a successful gateway call.
type RawResult struct {
	// Text is the raw text payload returned by the model.
	Text string

	// Data is the decoded, shape-validated value tree. Only set when the
	// request carried a Shape; nil for free-text workflows.
	Data any
}

package api

// TermRequest names one functional of an evaluation, by number or name.
// Weight defaults to 1.
type TermRequest struct {
	ID     int      `json:"id,omitempty"`
	Name   string   `json:"name,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
	Omega  float64  `json:"omega,omitempty"`
}

// EvalRequest is the body of POST /v1/eval. Up and Down are component-major
// density channels of NComp rows by NP points.
type EvalRequest struct {
	Functionals []TermRequest `json:"functionals"`
	Spin        string        `json:"spin,omitempty"`
	Deriv       int           `json:"deriv"`
	NP          int           `json:"np"`
	NComp       int           `json:"ncomp"`
	Up          []float64     `json:"up"`
	Down        []float64     `json:"down,omitempty"`
	// Store keeps the result retrievable by ID. Defaults to true.
	Store *bool `json:"store,omitempty"`
}

// Segment locates one derivative order inside Output.
type Segment struct {
	Order  int `json:"order"`
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// EvalResponse carries the unified output tensor.
type EvalResponse struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	CreatedAt int64     `json:"created_at"`
	Spin      string    `json:"spin"`
	Deriv     int       `json:"deriv"`
	NP        int       `json:"np"`
	NVar      int       `json:"nvar"`
	Terms     []Term    `json:"terms"`
	Segments  []Segment `json:"segments"`
	Output    []float64 `json:"output"`
	ElapsedMS float64   `json:"elapsed_ms"`
}

// Term is a resolved functional of an evaluation.
type Term struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Omega  float64 `json:"omega,omitempty"`
}

// FunctionalInfo describes one library functional.
type FunctionalInfo struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Kind           string      `json:"kind"`
	Family         string      `json:"family"`
	MaxDeriv       int         `json:"max_deriv"`
	NeedsLaplacian bool        `json:"needs_laplacian"`
	NeedsTau       bool        `json:"needs_tau"`
	Hybrid         string      `json:"hybrid,omitempty"`
	ExxCoeff       float64     `json:"exx_coeff,omitempty"`
	Omega          float64     `json:"omega,omitempty"`
	Alpha          float64     `json:"alpha,omitempty"`
	Beta           float64     `json:"beta,omitempty"`
	References     []Reference `json:"references,omitempty"`
}

// Reference is a literature citation.
type Reference struct {
	Text string `json:"text"`
	DOI  string `json:"doi,omitempty"`
}

// FunctionalList is the body of GET /v1/functionals.
type FunctionalList struct {
	Object  string           `json:"object"`
	Data    []FunctionalInfo `json:"data"`
	Library string           `json:"library_version"`
}

// LayoutResponse describes the output layout for a variable count.
type LayoutResponse struct {
	NVar     int       `json:"nvar"`
	Deriv    int       `json:"deriv"`
	Length   int       `json:"length_per_point"`
	Segments []Segment `json:"segments"`
}

// ErrorBody is the error envelope payload.
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

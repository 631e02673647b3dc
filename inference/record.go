// Package inference is the deterministic pipeline from a raw student
// record to a CGPA prediction: validate, encode, scale, predict, classify.
// Every stage is pure given its inputs and the frozen artifact bundle.
package inference

// StudentRecord is the typed request consumed by the pipeline.
type StudentRecord struct {
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	Course        string `json:"course"`
	Year          string `json:"year"`
	MaritalStatus string `json:"marital_status"`
	Depression    string `json:"depression"`
	Anxiety       string `json:"anxiety"`
	PanicAttack   string `json:"panic_attack"`
	Treatment     string `json:"treatment"`
}

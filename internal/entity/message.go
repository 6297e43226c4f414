package entity

// QueueMessage carries everything the worker needs to process a job without
// re-reading the job record. Delivery is at-least-once; the worker's
// output-existence guard keeps redelivery idempotent.
type QueueMessage struct {
	JobID      string     `json:"jobId"`
	InputBlob  string     `json:"inputBlob"`
	OutputBlob string     `json:"outputBlob"`
	Format     string     `json:"format"`
	Quality    float64    `json:"quality"`
	Method     Method     `json:"method"`
	Swatches   SwatchSet  `json:"swatches"`
	SpotShift  *SpotShift `json:"spotShift,omitempty"`
}

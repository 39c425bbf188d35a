package models

import "time"

// Snapshot - сохраненный результат экспорта сессии.
type Snapshot struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	GeomType     string    `json:"geomType"`
	TransformWGS bool      `json:"transformWGS"`
	FeatureCount int       `json:"featureCount"`
	Document     string    `json:"document"`
	CreatedAt    time.Time `json:"createdAt"`
}

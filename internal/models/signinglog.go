package models

import "time"

// SigningLog records one serial assertion signed by the vault.
type SigningLog struct {
	ID           int       `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	SerialNumber string    `json:"serialnumber"`
	Fingerprint  string    `json:"fingerprint"`
	Revision     int       `json:"revision"`
	Created      time.Time `json:"created"`
}

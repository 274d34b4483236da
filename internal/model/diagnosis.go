package model

import (
	"encoding/json"
	"time"
)

// Customer is the intake contact block. Everything is free text straight
// from the service advisor's form.
type Customer struct {
	FullName               string `json:"fullName"`
	PhonePrimary           string `json:"phonePrimary"`
	PhoneAlternate         string `json:"phoneAlternate"`
	Email                  string `json:"email"`
	Address                string `json:"address"`
	PreferredContactMethod string `json:"preferredContactMethod"`
}

// Vehicle describes the car being dropped off. Year and mileage stay
// strings; intake forms routinely contain "2012-ish" and "~120k".
type Vehicle struct {
	Year                 string `json:"year"`
	Make                 string `json:"make"`
	Model                string `json:"model"`
	VIN                  string `json:"vin"`
	Plate                string `json:"plate"`
	Mileage              string `json:"mileage"`
	EngineOrTransmission string `json:"engineOrTransmission"`
	Color                string `json:"color"`
	DropOffDateTime      string `json:"dropOffDateTime"`
}

// Complaint is the customer's description of the problem. Symptoms is the
// only field the diagnosis endpoint requires.
type Complaint struct {
	Symptoms        string `json:"symptoms"`
	AdditionalNotes string `json:"additionalNotes"`
}

// Preferences steer the tone of the generated report.
type Preferences struct {
	Tone        string `json:"tone"`
	DetailLevel string `json:"detailLevel"`
	Language    string `json:"language"`
}

// DiagnoseRequest is the inbound payload of POST /api/diagnose.
type DiagnoseRequest struct {
	Customer    Customer    `json:"customer"`
	Vehicle     Vehicle     `json:"vehicle"`
	Complaint   Complaint   `json:"complaint"`
	Preferences Preferences `json:"preferences"`
}

// IntakePayload is the normalized object sent to the model: the request
// with preference defaults applied plus the authenticated user's id.
type IntakePayload struct {
	Customer    Customer    `json:"customer"`
	Vehicle     Vehicle     `json:"vehicle"`
	Complaint   Complaint   `json:"complaint"`
	Preferences Preferences `json:"preferences"`
	UserID      string      `json:"userId"`
}

// DiagnosisMeta records which model produced a report and when.
type DiagnosisMeta struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"createdAt"`
}

// DiagnosisResult is the response envelope of POST /api/diagnose. AI holds
// the provider's structured report; when the provider replies with text
// that is not valid JSON, AI is null and RawText plus Warning carry what
// came back instead of failing the request.
type DiagnosisResult struct {
	Customer  Customer        `json:"customer"`
	Vehicle   Vehicle         `json:"vehicle"`
	Complaint Complaint       `json:"complaint"`
	AI        json.RawMessage `json:"ai"`
	RawText   string          `json:"rawText,omitempty"`
	Warning   string          `json:"warning,omitempty"`
	Meta      *DiagnosisMeta  `json:"meta,omitempty"`
}

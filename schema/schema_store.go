package schema

import "time"

// VaultRecord is the content of a vault's _vault.json.
type VaultRecord struct {
	TherapistName string `json:"therapistName"`
	Notes         string `json:"notes"`
	DateCreated   string `json:"dateCreated"`
}

// PatientRecord is the content of a patient's _patient.json.
type PatientRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Diagnosis   string `json:"diagnosis"`
	Notes       string `json:"notes"`
	DateCreated string `json:"dateCreated"`
	BirthDate   string `json:"birthDate"`
}

// Dataset is the stored form of one scale: one point per breakpoint, Y holds the bare level.
type Dataset struct {
	Label ScaleID `json:"label"`
	Color string  `json:"color"`
	Data  []Point `json:"data"`
}

// SessionRecord is the content of a session's s__<id>.json file.
type SessionRecord struct {
	ID        string       `json:"id"`
	PatientID string       `json:"patientId"`
	Notes     string       `json:"notes"`
	Date      string       `json:"date"`
	Duration  float64      `json:"duration"`
	Name      string       `json:"name"`
	Datasets  []Dataset    `json:"datasets"`
	Comments  []Annotation `json:"comments"`
}

// VaultContents is returned when a vault is opened.
type VaultContents struct {
	Path     string          `json:"vaultPath"`
	Metadata VaultRecord     `json:"vaultMetadata"`
	Patients []PatientRecord `json:"patients"`
}

// SessionRef addresses one session inside a vault.
type SessionRef struct {
	VaultPath string `json:"vaultPath"`
	PatientID string `json:"patientId"`
	SessionID string `json:"sessionId"`
}

// Key returns a stable identifier for the session, used by the draft store.
func (r SessionRef) Key() string {
	return r.VaultPath + "|" + r.PatientID + "|" + r.SessionID
}

// IsZero reports whether no session is addressed.
func (r SessionRef) IsZero() bool {
	return r == SessionRef{}
}

// Response is the request/response envelope shared by the vault and the host transport.
type Response[T any] struct {
	Success bool        `json:"success"`
	Message MessageCode `json:"message"`
	Data    T           `json:"data"`
}

// DateLayout is the layout of every date stored in the vault.
const DateLayout = "2006-01-02"

// GenerateDate formats t the way the vault stores dates.
func GenerateDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Age returns the patient's age in whole years on the given day.
// A birth date that cannot be parsed yields -1.
func (p PatientRecord) Age(on time.Time) int {
	birth, err := time.ParseInLocation(DateLayout, p.BirthDate, on.Location())
	if err != nil {
		birth, err = time.Parse(time.RFC3339, p.BirthDate)
		if err != nil {
			return -1
		}
	}
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return age
}

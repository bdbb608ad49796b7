package models

import "time"

// Status is the canonical booking availability for one class session.
type Status string

const (
	StatusOpen     Status = "Open"
	StatusWaitlist Status = "Waitlist"
	StatusFull     Status = "Full"
)

// Category is the fixed activity taxonomy. Unknown class types map to CategoryOther.
type Category string

const (
	CategoryYoga     Category = "yoga"
	CategoryPilates  Category = "pilates"
	CategoryReformer Category = "reformer"
	CategorySpin     Category = "spin"
	CategoryBoxing   Category = "boxing"
	CategoryHIIT     Category = "hiit"
	CategoryStrength Category = "strength"
	CategoryRun      Category = "run"
	CategoryBarre    Category = "barre"
	CategoryDance    Category = "dance"
	CategoryRecovery Category = "recovery"
	CategorySwimming Category = "swimming"
	CategoryAerial   Category = "aerial"
	CategoryOther    Category = "other"
)

// RawClass is whatever an adapter managed to pull off a studio's site or API.
// No field is guaranteed; several fields exist under two key names because the
// older adapters predate the newer naming (Gym vs GymSlug, RawDate vs Date,
// StartTime vs Time, Instructor vs Trainer). Only the normalizer reads this.
type RawClass struct {
	Gym        string // legacy brand/studio key
	GymSlug    string
	ClassName  string
	Instructor string // legacy trainer key
	Trainer    string
	Location   string
	RawDate    string // legacy date key
	Date       string
	StartTime  string // legacy time key, 12h or 24h
	Time       string
	Status     string // free text: "Open", "Full", button labels, etc.
	Link       string
	SourceID   string // durable booking-system id, when the platform has one
	Booked     int
	Capacity   int
}

// Class is the canonical record persisted to the shared store.
type Class struct {
	UID       string // identity key; upsert conflict target
	GymSlug   string // always location-specific for multi-venue brands
	BrandSlug string
	ClassName string
	Trainer   string
	Location  string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM, 24h
	Status    Status
	Category  Category
	Link      string
	UpdatedAt time.Time // set by the store at write time
}

// Bookmark is a user's "tell me once this opens" registration. Created by the
// app, deleted by the notifier after it fires.
type Bookmark struct {
	ID       int64
	UserID   string
	ClassUID string
}

// Device maps a user to their push token.
type Device struct {
	UserID string
	Token  string
}

// PushMessage is one notification handed to the push transport.
type PushMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound,omitempty"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// BatchSummary holds per-run aggregates for the terminal report.
type BatchSummary struct {
	TotalRaw     int
	TotalClasses int
	OpenClasses  int
	ByBrand      map[string]int
	ByCategory   map[Category]int
	ByStatus     map[Status]int
}

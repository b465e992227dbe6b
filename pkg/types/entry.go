package types

// Ventilation techniques per DIN 1946-6 manual window ventilation.
// The German terms are the stored values; they also serve as display
// labels in exports and the protocol document.
const (
	VentilationBurst = "Stoßlüften"
	VentilationCross = "Querlüften"
	VentilationTilt  = "Kipplüften"
)

// validVentilationTypes is the set of recognized technique values.
var validVentilationTypes = map[string]bool{
	VentilationBurst: true,
	VentilationCross: true,
	VentilationTilt:  true,
}

// Bounds enforced on ventilation entries.
const (
	MinDuration = 1
	MaxDuration = 60
	MinHumidity = 0
	MaxHumidity = 100
	MaxNotesLen = 500
)

// VentilationEntry documents a single ventilation act. One entry may
// cover several rooms ventilated simultaneously (cross-ventilation).
// Entries are immutable after creation: they can only be created and
// deleted, never updated.
type VentilationEntry struct {
	ID              int64    `json:"id"`                        // Surrogate id, auto-incremented by the store.
	ApartmentID     string   `json:"apartmentId"`               // Reference to the apartment; not cascade-checked.
	Date            string   `json:"date"`                      // Calendar date of the act, YYYY-MM-DD, may be backdated.
	Time            string   `json:"time"`                      // Wall-clock time of the act, HH:MM.
	Rooms           []string `json:"rooms"`                     // Room names, non-empty, in ventilation order.
	VentilationType string   `json:"ventilationType"`           // One of the Ventilation* constants.
	Duration        int      `json:"duration"`                  // Minutes, within [MinDuration, MaxDuration].
	TempBefore      float64  `json:"tempBefore"`                // °C before ventilating.
	HumidityBefore  float64  `json:"humidityBefore"`            // Relative humidity before, within [0, 100].
	TempAfter       *float64 `json:"tempAfter,omitempty"`       // °C after, optional.
	HumidityAfter   *float64 `json:"humidityAfter,omitempty"`   // Relative humidity after, optional.
	Notes           string   `json:"notes,omitempty"`           // Free text, at most MaxNotesLen characters.
	CreatedAt       int64    `json:"createdAt"`                 // Epoch milliseconds, assigned on insert, immutable.
}

// Validate checks the entry invariants enforced at the store boundary.
// Returns ErrInvalidEntry if any bound is violated.
func (e *VentilationEntry) Validate() error {
	if e.ApartmentID == "" {
		return ErrInvalidEntry
	}
	if e.Date == "" || e.Time == "" {
		return ErrInvalidEntry
	}
	if len(e.Rooms) == 0 {
		return ErrInvalidEntry
	}
	for _, r := range e.Rooms {
		if r == "" {
			return ErrInvalidEntry
		}
	}
	if !validVentilationTypes[e.VentilationType] {
		return ErrInvalidEntry
	}
	if e.Duration < MinDuration || e.Duration > MaxDuration {
		return ErrInvalidEntry
	}
	if e.HumidityBefore < MinHumidity || e.HumidityBefore > MaxHumidity {
		return ErrInvalidEntry
	}
	if e.HumidityAfter != nil && (*e.HumidityAfter < MinHumidity || *e.HumidityAfter > MaxHumidity) {
		return ErrInvalidEntry
	}
	if len([]rune(e.Notes)) > MaxNotesLen {
		return ErrInvalidEntry
	}
	return nil
}

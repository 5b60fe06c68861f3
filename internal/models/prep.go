package models

// Verdict is the pre-session readiness verdict. Red means the trader
// should not take a single trade that day.
type Verdict string

const (
	VerdictGreen  Verdict = "GREEN"
	VerdictYellow Verdict = "YELLOW"
	VerdictRed    Verdict = "RED"
)

// DailyPrepData is the self-reported morning check-in, keyed by calendar
// date (ISO 2006-01-02). Subjective scores are 1-10; the stored
// GatekeeperScore and Verdict are the output of the readiness gate run
// against the same record.
type DailyPrepData struct {
	Date                string
	HRVValue            float64
	HRVBaseline         float64
	SleepHours          float64
	PhysicalScore       int
	MentalScore         int
	EmotionalScore      int
	ProcessScore        int
	UncertaintyAccepted bool
	DailyRiskAmount     float64
	HabitDisciplineScore int // 1-10, yesterday's discipline habit rating
	JournalCompleted    bool
	GatekeeperScore     int
	Verdict             Verdict
}

package results

import (
	"database/sql"
	"strconv"
)

// Trial is one row of the results file. Reaction times are milliseconds
// from screen onset; invalid values are written as "None".
type Trial struct {
	Block         int
	Index         int
	EffortPercent int
	Credits       int
	Beneficiary   string
	Decision      string
	Presses       int
	Success       bool
	Earned        int
	DecisionRT    sql.NullInt64
	FirstPress    sql.NullInt64
	LastPress     sql.NullInt64
}

// Header keeps the column names analysis scripts already expect.
var Header = []string{
	"NivelEsfuerzo",
	"NivelReward",
	"Condición",
	"Decisión",
	"PresionesHechas",
	"ÉxitoTarea",
	"CréditosGanados",
	"TiempoReacciónDecisión",
	"TiempoReacciónPrimerPresión",
	"TiempoReacciónÚltimaPresión",
	"Bloque",
	"Ensayo",
}

func millis(v sql.NullInt64) string {
	if !v.Valid {
		return "None"
	}
	return strconv.FormatInt(v.Int64, 10)
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func (t Trial) Row() []string {
	return []string{
		strconv.Itoa(t.EffortPercent),
		strconv.Itoa(t.Credits),
		t.Beneficiary,
		t.Decision,
		strconv.Itoa(t.Presses),
		pyBool(t.Success),
		strconv.Itoa(t.Earned),
		millis(t.DecisionRT),
		millis(t.FirstPress),
		millis(t.LastPress),
		strconv.Itoa(t.Block),
		strconv.Itoa(t.Index),
	}
}

// Recorder persists trial rows.
type Recorder interface {
	Record(t Trial) error
}

// Tee records to every recorder, stopping at the first error.
type Tee []Recorder

func (t Tee) Record(tr Trial) error {
	for _, r := range t {
		if err := r.Record(tr); err != nil {
			return err
		}
	}
	return nil
}

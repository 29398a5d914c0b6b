// Package insights derives rule-based findings from stored records. No
// model calls here: every insight is a deterministic function of the rows.
package insights

import (
	"fmt"
	"time"

	"github.com/lumihealth/lumivault/internal/records"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

type Insight struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// Evaluate runs every rule against the supplied rows at the given time.
func Evaluate(
	now time.Time,
	reminders []records.Reminder,
	medications []records.MedicationRecord,
	immunizations []records.ImmunizationRecord,
	dental []records.DentalRecord,
	vision []records.VisionRecord,
) []Insight {
	var out []Insight
	out = append(out, overdueReminders(now, reminders)...)
	out = append(out, dueImmunizations(now, immunizations)...)
	out = append(out, openEndedMedications(medications)...)
	out = append(out, staleCheckup(now, "dental checkup", latestDate(dentalDates(dental)))...)
	out = append(out, staleCheckup(now, "vision exam", latestDate(visionDates(vision)))...)
	return out
}

func overdueReminders(now time.Time, reminders []records.Reminder) []Insight {
	var out []Insight
	for _, r := range reminders {
		if r.Status == "completed" {
			continue
		}
		if r.ReminderDate.Before(now) {
			out = append(out, Insight{
				Severity:    SeverityWarning,
				Title:       "Overdue reminder: " + r.Title,
				Description: fmt.Sprintf("This %s reminder was due on %s.", r.ReminderType, r.ReminderDate.Format("2006-01-02")),
			})
		}
	}
	return out
}

func dueImmunizations(now time.Time, immunizations []records.ImmunizationRecord) []Insight {
	var out []Insight
	for _, rec := range immunizations {
		if rec.NextDose == nil {
			continue
		}
		due, err := time.Parse("2006-01-02", *rec.NextDose)
		if err != nil {
			continue
		}
		if !due.After(now) {
			out = append(out, Insight{
				Severity:    SeverityWarning,
				Title:       "Immunization dose due: " + rec.Vaccine,
				Description: fmt.Sprintf("The next dose of %s was due on %s.", rec.Vaccine, *rec.NextDose),
			})
		}
	}
	return out
}

func openEndedMedications(medications []records.MedicationRecord) []Insight {
	active := 0
	for _, m := range medications {
		if m.Status == "Active" && m.EndDate == nil {
			active++
		}
	}
	if active >= 3 {
		return []Insight{{
			Severity:    SeverityInfo,
			Title:       "Review your active medications",
			Description: fmt.Sprintf("You have %d active medications with no end date. Consider reviewing them with your provider.", active),
		}}
	}
	return nil
}

// staleCheckup flags a category whose newest record is over a year old.
func staleCheckup(now time.Time, label, latest string) []Insight {
	if latest == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", latest)
	if err != nil {
		return nil
	}
	if now.Sub(t) > 365*24*time.Hour {
		return []Insight{{
			Severity:    SeverityInfo,
			Title:       "Time to schedule a " + label,
			Description: fmt.Sprintf("Your most recent %s on record was %s.", label, latest),
		}}
	}
	return nil
}

func dentalDates(recs []records.DentalRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Date
	}
	return out
}

func visionDates(recs []records.VisionRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Date
	}
	return out
}

func latestDate(dates []string) string {
	latest := ""
	for _, d := range dates {
		if d > latest {
			latest = d
		}
	}
	return latest
}

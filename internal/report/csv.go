package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// TreatmentExportRow is one line of a patient's downloadable history.
type TreatmentExportRow struct {
	Date           string
	Time           string
	DoctorName     string
	Specialization string
	Status         string
	Diagnosis      string
	Prescription   string
}

func BuildTreatmentHistoryCSV(rows []TreatmentExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "time", "doctor", "specialization", "status", "diagnosis", "prescription"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.Date,
			r.Time,
			r.DoctorName,
			r.Specialization,
			r.Status,
			r.Diagnosis,
			r.Prescription,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// DoctorMonthlyRow aggregates one doctor's activity inside a month.
type DoctorMonthlyRow struct {
	DoctorName     string
	Specialization string
	Total          int64
	Completed      int64
	Cancelled      int64
}

// MonthlySummary is the admin-facing activity report for one month.
type MonthlySummary struct {
	Month     string // MM/YYYY
	Total     int64
	Completed int64
	Cancelled int64
	Doctors   []DoctorMonthlyRow
}

func BuildMonthlyCSV(s *MonthlySummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"month", s.Month},
		{"total_appointments", strconv.FormatInt(s.Total, 10)},
		{"completed", strconv.FormatInt(s.Completed, 10)},
		{"cancelled", strconv.FormatInt(s.Cancelled, 10)},
		{},
		{"doctor", "specialization", "total", "completed", "cancelled"},
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	for _, d := range s.Doctors {
		record := []string{
			d.DoctorName,
			d.Specialization,
			strconv.FormatInt(d.Total, 10),
			strconv.FormatInt(d.Completed, 10),
			strconv.FormatInt(d.Cancelled, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

package catalog

import "github.com/vinicius-lino-figueiredo/gefilter/domain"

// Views of the care scheduling screens.
const (
	Assignments = "assignments"
	Employees   = "employees"
	Patients    = "patients"
)

var serviceTypes = []domain.SuggestionOption{
	{Value: "medicine", Label: "Medicine"},
	{Value: "exercise", Label: "Exercise"},
	{Value: "companionship", Label: "Companionship"},
	{Value: "personal_care", Label: "Personal Care"},
}

// Builtin returns the suggestions of the assignments, employees and patients
// screens.
func Builtin() map[string][]domain.Suggestion {
	return map[string][]domain.Suggestion{
		Assignments: {
			{Field: "employee_name", Label: "Employee Name", Type: domain.TypeText, Placeholder: "Enter employee name"},
			{Field: "patient_name", Label: "Patient Name", Type: domain.TypeText, Placeholder: "Enter patient name"},
			{Field: "service_type", Label: "Service Type", Type: domain.TypeSelect, Options: serviceTypes},
			{Field: "priority_score", Label: "Priority Score", Type: domain.TypeNumber, Min: 1, Max: 10, Placeholder: "Enter priority score"},
			{Field: "travel_time", Label: "Travel Time (minutes)", Type: domain.TypeNumber, Min: 0, Max: 300, Placeholder: "Enter travel time"},
			{Field: "assigned_time", Label: "Assigned Time", Type: domain.TypeDate, Placeholder: "Select date"},
			{Field: "is_unassigned", Label: "Unassigned Patients", Type: domain.TypeSelect, Options: []domain.SuggestionOption{
				{Value: "true", Label: "Show Unassigned Only"},
				{Value: "false", Label: "Show Assigned Only"},
			}},
		},
		Employees: {
			{Field: "name", Label: "Employee Name", Type: domain.TypeText, Placeholder: "Enter employee name"},
			{Field: "qualification", Label: "Qualification", Type: domain.TypeSelect, Options: []domain.SuggestionOption{
				{Value: "nurse", Label: "Nurse"},
				{Value: "carer", Label: "Carer"},
				{Value: "specialist", Label: "Specialist"},
			}},
			{Field: "language_spoken", Label: "Language", Type: domain.TypeText, Placeholder: "Enter language"},
			{Field: "transport_mode", Label: "Transport Mode", Type: domain.TypeSelect, Options: []domain.SuggestionOption{
				{Value: "car", Label: "Car"},
				{Value: "public_transport", Label: "Public Transport"},
				{Value: "walking", Label: "Walking"},
			}},
			{Field: "available_hours", Label: "Available Hours", Type: domain.TypeNumber, Min: 0, Max: 168, Placeholder: "Enter available hours"},
			{Field: "is_available", Label: "Availability", Type: domain.TypeSelect, Options: []domain.SuggestionOption{
				{Value: "true", Label: "Available"},
				{Value: "false", Label: "Unavailable"},
			}},
		},
		Patients: {
			{Field: "patient_name", Label: "Patient Name", Type: domain.TypeText, Placeholder: "Enter patient name"},
			{Field: "required_support", Label: "Required Support", Type: domain.TypeSelect, Options: serviceTypes},
			{Field: "required_hours_of_support", Label: "Required Hours", Type: domain.TypeNumber, Min: 1, Max: 168, Placeholder: "Enter required hours"},
			{Field: "requires_medication", Label: "Requires Medication", Type: domain.TypeSelect, Options: []domain.SuggestionOption{
				{Value: "yes", Label: "Yes"},
				{Value: "no", Label: "No"},
			}},
			{Field: "is_assigned", Label: "Assignment Status", Type: domain.TypeSelect, Options: []domain.SuggestionOption{
				{Value: "true", Label: "Assigned"},
				{Value: "false", Label: "Unassigned"},
			}},
		},
	}
}

package appraisal

const (
	StatusDraft           = "draft"
	StatusPendingHR       = "pending_hr_approval"
	StatusPendingDocs     = "pending_docs_approval"
	StatusPendingMD       = "pending_md_approval"
	StatusPendingChairman = "pending_chairman_approval"
	StatusCompleted       = "completed"
)

const (
	RatingPoor     = "Poor"
	RatingFair     = "Fair"
	RatingGood     = "Good"
	RatingVeryGood = "Very Good"
	RatingNA       = "N/A"
)

// Departments is the closed set accepted on submission. The database enforces
// the same list via a CHECK constraint.
var Departments = []string{
	"GOPD",
	"OPD",
	"MAINTENANCE",
	"DRIVERS",
	"NURSES",
	"NURSES ATTENDANTS",
	"INTERNAL SECURITY",
	"ADMIN",
	"FRONT DESK",
	"LAB",
	"RADIOLOGY",
	"BILLING",
	"INTERNAL AUDIT",
	"ACCOUNTS",
	"PAEDIATRICS",
	"PHARMACY",
	"ICT",
}

func ValidDepartment(department string) bool {
	for _, candidate := range Departments {
		if candidate == department {
			return true
		}
	}
	return false
}

type Question struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Section struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Sections is the fixed, versioned question catalogue. Every submission must
// score every question listed here, each in [0,10].
var Sections = []Section{
	{
		Title: "Job Knowledge & Skills",
		Questions: []Question{
			{ID: "q1_knowledge_of_duties", Label: "Demonstrates thorough knowledge of job duties and responsibilities."},
			{ID: "q2_technical_skills", Label: "Possesses the necessary technical skills to perform the job effectively."},
			{ID: "q3_understanding_of_policies", Label: "Understands and follows hospital policies and procedures."},
		},
	},
	{
		Title: "Quality of Work",
		Questions: []Question{
			{ID: "q4_accuracy_and_thoroughness", Label: "Produces accurate, thorough, and high-quality work."},
			{ID: "q5_efficiency_and_timeliness", Label: "Completes tasks efficiently and within deadlines."},
			{ID: "q6_work_presentation", Label: "Maintains a neat and organized work environment."},
		},
	},
	{
		Title: "Communication & Interpersonal Skills",
		Questions: []Question{
			{ID: "q7_teamwork_and_collaboration", Label: "Works cooperatively with others and contributes to a positive team environment."},
			{ID: "q8_patient_staff_interaction", Label: "Interacts with patients and colleagues professionally and courteously."},
			{ID: "q9_clarity_of_communication", Label: "Communicates clearly and effectively, both verbally and in writing."},
		},
	},
	{
		Title: "Attendance & Punctuality",
		Questions: []Question{
			{ID: "q10_punctuality", Label: "Is consistently on time and ready to work at the start of their shift."},
			{ID: "q11_adherence_to_schedule", Label: "Adheres to break and lunch schedules appropriately."},
		},
	},
	{
		Title: "Initiative & Problem Solving",
		Questions: []Question{
			{ID: "q12_proactiveness", Label: "Shows initiative and seeks out new responsibilities."},
			{ID: "q13_problem_solving_ability", Label: "Identifies and resolves problems in a timely and effective manner."},
			{ID: "q14_adaptability_to_change", Label: "Adapts well to changes in the work environment."},
		},
	},
}

// RequiredQuestionIDs returns the flat question-id list in catalogue order.
func RequiredQuestionIDs() []string {
	var ids []string
	for _, section := range Sections {
		for _, question := range section.Questions {
			ids = append(ids, question.ID)
		}
	}
	return ids
}

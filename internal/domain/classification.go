package domain

// Category is a classifier label.
type Category string

const (
	CategoryBenefits    Category = "Benefits"
	CategoryPTO         Category = "PTO"
	CategoryPayroll     Category = "Payroll"
	CategoryPolicy      Category = "Policy"
	CategoryOnboarding  Category = "Onboarding"
	CategoryOffboarding Category = "Offboarding"
	CategoryComplaint   Category = "Complaint"
	CategoryGeneral     Category = "General"
)

// CategoryUnclassified buckets tickets without a category in analytics.
const CategoryUnclassified = "Unclassified"

// CandidateLabels is the fixed label set sent to the classifier, in order.
var CandidateLabels = []Category{
	CategoryBenefits,
	CategoryPTO,
	CategoryPayroll,
	CategoryPolicy,
	CategoryOnboarding,
	CategoryOffboarding,
	CategoryComplaint,
	CategoryGeneral,
}

// Valid reports whether c is one of the candidate labels.
func (c Category) Valid() bool {
	for _, label := range CandidateLabels {
		if label == c {
			return true
		}
	}
	return false
}

// Classification is the top label returned by the classifier.
type Classification struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
}

// Analytics summarizes the ticket collection.
type Analytics struct {
	TotalTickets   int            `json:"total_tickets"`
	CategoryCounts map[string]int `json:"category_counts"`
	StatusCounts   map[string]int `json:"status_counts"`
}

// Package autoresponse maps a ticket category to the canned reply shown to
// the employee.
package autoresponse

import "github.com/spec-kit/hr-triage-service/internal/domain"

var responses = map[domain.Category]string{
	domain.CategoryBenefits:    "Thank you for your benefits inquiry. Our HR Benefits team will review your request and respond within 24-48 hours. In the meantime, you can check our Benefits portal at hr.company.com/benefits.",
	domain.CategoryPTO:         "Your PTO request has been received. Please ensure your manager approves the request in the HR system. Standard PTO requests are processed within 1 business day.",
	domain.CategoryPayroll:     "We've received your payroll inquiry. Our payroll team processes requests within 2 business days. For urgent matters, please contact payroll@company.com directly.",
	domain.CategoryPolicy:      "Thank you for your policy question. Our HR team will provide guidance within 24 hours. You can also reference the employee handbook at hr.company.com/policies.",
	domain.CategoryOnboarding:  "Welcome! Your onboarding question has been routed to our New Hire team. They will reach out within 24 hours to assist you.",
	domain.CategoryOffboarding: "Your offboarding inquiry has been received. Our HR team will contact you to discuss next steps and ensure a smooth transition.",
	domain.CategoryComplaint:   "We take all workplace concerns seriously. Your matter has been flagged for priority review. An HR representative will contact you within 24 hours.",
	domain.CategoryGeneral:     "Thank you for contacting HR. Your request has been received and will be addressed within 24-48 hours.",
}

// For returns the canned reply for category, falling back to General.
func For(category domain.Category) string {
	if text, ok := responses[category]; ok {
		return text
	}
	return responses[domain.CategoryGeneral]
}

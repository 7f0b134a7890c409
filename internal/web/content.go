package web

// Stat is a headline number shown on the landing page.
type Stat struct {
	Value string
	Label string
}

// Feature is a titled blurb used by the value, trust and process sections.
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// FAQ is one question of the support section.
type FAQ struct {
	Question string
	Answer   string
}

// Content is the static marketing copy of the landing page.
type Content struct {
	Brand        string
	Greeting     string
	Headline     string
	Highlight    string
	Tagline      string
	Pitch        string
	CallToAction string
	Rating       string
	HeroBadges   []Feature
	Values       []Feature
	ValueStats   []Stat
	Trust        []Feature
	TrustStats   []Stat
	Steps        []Feature
	Guarantees   []Feature
	FAQ          []FAQ
	CallTimes    []string
	Closing      string
	ClosingStats []Stat
	Small        string
	Hours        []string
	Languages    []string
	City         string
	Email        string
}

// Site is the copy rendered on "/".
var Site = Content{
	Brand:        "ServiSwiss",
	Greeting:     "Willkommen | Bienvenue | Benvenuto | Welcome",
	Headline:     "Finally, One Platform for",
	Highlight:    "All Your Household Needs",
	Tagline:      "Save up to 47% on cleaning, transportation and repairs with Geneva's coordination platform. Swiss precision meets smart automation.",
	Pitch:        "Tired of high costs, scheduling hassles and unreliable services? We handle it all seamlessly.",
	CallToAction: "Book Your Service Now, Get Confirmed in 48h",
	Rating:       "4.8/5 from 500+ satisfied customers",
	HeroBadges: []Feature{
		{Icon: "🧹", Title: "Cleaning"},
		{Icon: "🚚", Title: "Smart Transport"},
		{Icon: "🔧", Title: "Auto Repair"},
	},
	Values: []Feature{
		{Icon: "💰", Title: "47% Cost Savings", Description: "From CHF 42-55 to 22/hour"},
		{Icon: "⏱", Title: "Save 10+ Hours Monthly", Description: "Let us handle the coordination"},
		{Icon: "🇨🇭", Title: "Swiss Quality Guaranteed", Description: "Premium service standards"},
		{Icon: "🤝", Title: "Smart Matching", Description: "Careful provider selection"},
	},
	ValueStats: []Stat{
		{Value: "47%", Label: "Average Cost Savings"},
		{Value: "10+", Label: "Hours Saved Monthly"},
		{Value: "500+", Label: "Happy Customers"},
	},
	Trust: []Feature{
		{Icon: "🛡", Title: "Licensed & Insured", Description: "All service providers are fully licensed and insured"},
		{Icon: "🔒", Title: "GDPR Compliant", Description: "Your data is protected according to Swiss and EU standards"},
		{Icon: "⭐", Title: "4.8/5 Ratings", Description: "Consistently high ratings from satisfied customers"},
		{Icon: "↩", Title: "Money-Back Guarantee", Description: "100% satisfaction guarantee or your money back"},
	},
	TrustStats: []Stat{
		{Value: "500+", Label: "Happy Customers"},
		{Value: "2,000+", Label: "Services Completed"},
		{Value: "4.8", Label: "Average Rating"},
		{Value: "24/7", Label: "Customer Support"},
	},
	Steps: []Feature{
		{Icon: "1", Title: "Select & Reserve Instantly", Description: "Choose your service and preferred time slot"},
		{Icon: "2", Title: "Receive Booking Reference", Description: "Get instant confirmation email with reference number"},
		{Icon: "3", Title: "48h Confirmation Call", Description: "Our team confirms details and matches you with providers"},
		{Icon: "4", Title: "Secure Payment Link via Email", Description: "Pay securely only after service confirmation"},
	},
	Guarantees: []Feature{
		{Title: "No Upfront Payment", Description: "Pay only after confirmation"},
		{Title: "Swiss Security Standards", Description: "GDPR compliant & encrypted"},
		{Title: "Money-Back Guarantee", Description: "100% satisfaction guaranteed"},
	},
	FAQ: []FAQ{
		{
			Question: "How does the 48-hour confirmation work?",
			Answer:   "After you book, we match you with the best available service providers. Within 48 hours, we call to confirm your booking details and provider information. You only pay after confirmation.",
		},
		{
			Question: "What if I need to cancel or reschedule?",
			Answer:   "You can cancel or reschedule up to 24 hours before your service without any fees. For same-day changes, a small administrative fee may apply.",
		},
		{
			Question: "Are all service providers insured?",
			Answer:   "Yes, all our service providers are fully licensed, insured and background-checked. We maintain strict quality standards and regular performance reviews.",
		},
		{
			Question: "What payment methods do you accept?",
			Answer:   "We accept all major credit cards, bank transfers and popular Swiss payment methods like Twint. Payment is processed securely through our encrypted platform.",
		},
		{
			Question: "Do you offer services outside Geneva?",
			Answer:   "Currently, we focus on the Geneva metropolitan area to ensure the highest quality service.",
		},
	},
	CallTimes:    []string{"Morning (8-12)", "Afternoon (12-17)", "Evening (17-20)"},
	Closing:      "Join the growing community of Geneva residents who trust us for all their household needs",
	ClosingStats: []Stat{{Value: "47%", Label: "Average Savings"}, {Value: "48h", Label: "Confirmation Time"}, {Value: "4.8/5", Label: "Customer Rating"}},
	Small:        "No setup fees • No monthly fees • No minimum commitment",
	Hours:        []string{"Mon-Fri 8:00-18:00", "Sat 9:00-16:00"},
	Languages:    []string{"English", "Français", "Deutsch", "Italiano"},
	City:         "Geneva, Switzerland",
	Email:        "booking@serviswiss.ch",
}

package wizard

// Avatar is a persona the user can pick to represent them.
type Avatar struct {
	ID          string
	Name        string
	Symbol      string
	Description string
}

// Avatars is the fixed avatar catalogue, in display order.
var Avatars = []Avatar{
	{ID: "apollo", Name: "Apollo", Symbol: "☀️", Description: "God of light, music and prophecy"},
	{ID: "athena", Name: "Athena", Symbol: "🦉", Description: "Goddess of wisdom and strategy"},
	{ID: "venus", Name: "Venus", Symbol: "💕", Description: "Goddess of love and beauty"},
	{ID: "mercury", Name: "Mercury", Symbol: "⚡", Description: "Messenger of the gods"},
	{ID: "diana", Name: "Diana", Symbol: "🏹", Description: "Goddess of the hunt and the moon"},
}

// AvatarByID looks up an avatar in the catalogue.
func AvatarByID(id string) (Avatar, bool) {
	for _, a := range Avatars {
		if a.ID == id {
			return a, true
		}
	}
	return Avatar{}, false
}

// FocusOption describes a focus for display.
type FocusOption struct {
	Focus       Focus
	Title       string
	Description string
}

// Focuses lists the three focuses in display order.
var Focuses = []FocusOption{
	{
		Focus:       FocusLove,
		Title:       "Love & Relationships",
		Description: "Find cities where your romantic energy flourishes and meaningful connections await",
	},
	{
		Focus:       FocusCareer,
		Title:       "Career & Growth",
		Description: "Discover locations that align with your professional aspirations and career advancement",
	},
	{
		Focus:       FocusWealth,
		Title:       "Wealth & Prosperity",
		Description: "Uncover places where financial opportunities and abundance naturally flow to you",
	},
}

// FocusOptionFor returns the display entry for f.
func FocusOptionFor(f Focus) (FocusOption, bool) {
	for _, o := range Focuses {
		if o.Focus == f {
			return o, true
		}
	}
	return FocusOption{}, false
}

// Insight is a recommended next step for a focus, pointing at a platform
// where it can be acted on.
type Insight struct {
	Title       string
	Description string
	Platform    string
	Link        string
}

var insights = map[Focus][]Insight{
	FocusLove: {
		{Title: "Local Dating Events", Description: "Join speed dating and singles mixers in your recommended city", Platform: "Meetup", Link: "https://www.meetup.com"},
		{Title: "Relationship Coaching", Description: "Connect with certified relationship coaches in the area", Platform: "Psychology Today", Link: "https://www.psychology.com"},
		{Title: "Social Activities", Description: "Explore hobby groups and social clubs for meaningful connections", Platform: "Eventbrite", Link: "https://www.eventbrite.com"},
	},
	FocusCareer: {
		{Title: "Job Opportunities", Description: "Browse open positions in your field in the recommended cities", Platform: "LinkedIn", Link: "https://www.linkedin.com"},
		{Title: "Networking Events", Description: "Attend professional meetups and industry conferences", Platform: "Meetup", Link: "https://www.meetup.com"},
		{Title: "Career Development", Description: "Find mentors and career coaches in your target location", Platform: "SCORE", Link: "https://www.score.org"},
	},
	FocusWealth: {
		{Title: "Financial Advisors", Description: "Connect with certified financial planners in your area", Platform: "CFP Board", Link: "https://www.cfp.net"},
		{Title: "Investment Opportunities", Description: "Explore local real estate and investment options", Platform: "BiggerPockets", Link: "https://www.biggerpockets.com"},
		{Title: "Business Networking", Description: "Join entrepreneur groups and business chambers", Platform: "Chamber of Commerce", Link: "https://www.chamber.com"},
	},
}

// InsightsFor returns the recommended actions for f, or nil for an unknown
// focus. The slice is a copy.
func InsightsFor(f Focus) []Insight {
	list, ok := insights[f]
	if !ok {
		return nil
	}
	return append([]Insight(nil), list...)
}

package repository

import (
	"time"

	"github.com/debemdeboas/postcraft/internal/model"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// ExampleDrafts returns the sample drafts shown on a fresh installation when seeding is enabled.
func ExampleDrafts() []model.Draft {
	return []model.Draft{
		{
			ID:        "example-1",
			Title:     "AI in the Workplace",
			Content:   "Exciting insights about AI transforming the workplace! 🤖\n\nThis technology is reshaping how we work, collaborate, and innovate. Here are my key observations:\n\n• Automation is handling routine tasks\n• AI assists in decision-making processes\n• Human creativity becomes more valuable\n• New skills are emerging as essential\n\nThe future belongs to those who adapt and embrace these changes. How is AI impacting your industry?\n\n#AI #FutureOfWork #Innovation #Technology #DigitalTransformation",
			CreatedAt: day(2024, time.January, 15),
			UpdatedAt: day(2024, time.January, 15),
		},
		{
			ID:        "example-2",
			Title:     "Remote Team Collaboration",
			Content:   "Remote work has revolutionized team collaboration! 🏠💼\n\nAfter leading distributed teams for 3 years, here are my top strategies for success:\n\n✅ Daily standups keep everyone aligned\n✅ Async communication respects time zones\n✅ Virtual coffee chats build relationships\n✅ Clear documentation prevents confusion\n✅ Flexible schedules boost productivity\n\nThe key? Intentional communication and trust.\n\nWhat collaboration tools have transformed your remote work experience?\n\n#RemoteWork #TeamCollaboration #Leadership #Productivity #WorkFromHome",
			CreatedAt: day(2024, time.January, 14),
			UpdatedAt: day(2024, time.January, 16),
		},
		{
			ID:        "example-3",
			Title:     "Career Growth Strategies",
			Content:   "Your career growth isn't just about climbing the ladder 📈\n\nIt's about building a foundation that sustains long-term success. Here's what I've learned:\n\n🎯 Focus on impact over titles\n🎯 Build genuine professional relationships\n🎯 Continuously upskill and adapt\n🎯 Seek feedback and act on it\n🎯 Take calculated risks\n\nThe most successful professionals I know didn't just wait for opportunities, they created them.\n\nWhat's the best career advice you've received?\n\n#CareerGrowth #ProfessionalDevelopment #Leadership #Success #Networking",
			CreatedAt: day(2024, time.January, 12),
			UpdatedAt: day(2024, time.January, 13),
		},
	}
}

package domain

const unsplash = "https://images.unsplash.com/"

// DefaultDataset is the content a brand-new store starts with.
func DefaultDataset() Dataset {
	return Dataset{
		Topics: []Topic{
			{
				ID:      "usa",
				Section: SectionCountries,
				Title:   "Japan",
				Photo:   unsplash + "photo-1539037116277-4db20889f2d4?w=800&h=600&fit=crop",
				Preview: "Where ancient temples meet neon-lit streets, and every meal feels like a ceremony.",
				Content: "Where ancient temples meet neon-lit streets, and every meal feels like a ceremony. " +
					"The attention to detail in everything—from train schedules to tea ceremonies—" +
					"taught me that excellence is in the small things.",
			},
			{
				ID:      "iceland",
				Section: SectionCountries,
				Title:   "Iceland",
				Photo:   unsplash + "photo-1515542622106-78bda8ba0e5b?w=800&h=600&fit=crop",
				Preview: "A land of fire and ice where nature reminds you how small you are.",
				Content: "A land of fire and ice where nature reminds you how small you are. " +
					"The midnight sun in summer and the northern lights in winter—both experiences " +
					"that reset your sense of time and place.",
			},
			{
				ID:      "getting-lost",
				Section: SectionOutdoors,
				Title:   "The Art of Getting Lost",
				Photo:   unsplash + "photo-1506905925346-21bda4d32df4?w=800&h=600&fit=crop",
				Preview: "Sometimes the best trails are the ones you never planned to take.",
				Content: "Sometimes the best trails are the ones you never planned to take. " +
					"Getting lost isn't a failure—it's an opportunity to discover something " +
					"you didn't know you were looking for.",
			},
			{
				ID:      "rain-hiking",
				Section: SectionOutdoors,
				Title:   "Why Rain Makes Everything Better",
				Photo:   unsplash + "photo-1501594907352-04cda38ebc29?w=800&h=600&fit=crop",
				Preview: "There's something about hiking in the rain that clears your head.",
				Content: "There's something about hiking in the rain that clears your head. " +
					"The sound, the smell, the way everything looks more alive. " +
					"Plus, you get the trails all to yourself.",
			},
			{
				ID:      "packing",
				Section: SectionGuides,
				Title:   "How to Pack Like You Actually Know What You're Doing",
				Photo:   unsplash + "photo-1488646953014-85cb44e25828?w=800&h=600&fit=crop",
				Preview: "Lessons learned from one too many overstuffed suitcases.",
				Content: "Lessons learned from one too many overstuffed suitcases. " +
					"The golden rule: if you think you might need it, you probably don't. " +
					"But always pack an extra pair of socks.",
			},
			{
				ID:      "multi-day-hike",
				Section: SectionGuides,
				Title:   "Your First Multi-Day Hike: A Friendly Reality Check",
				Photo:   unsplash + "photo-1551632811-561732d1e306?w=800&h=600&fit=crop",
				Preview: "Everything I wish someone had told me before my first backpacking trip.",
				Content: "Everything I wish someone had told me before my first backpacking trip. " +
					"Spoiler: it's going to hurt, but it's also going to be amazing. Here's how to prepare.",
			},
		},
		Quotes: []Quote{
			{
				ID:     "lao-tzu",
				Text:   "The journey of a thousand miles begins with a single step.",
				Author: "Lao Tzu",
				Reflection: "A reminder that every big adventure starts with a single step. " +
					"I think about this whenever I'm procrastinating on something that feels too big to tackle. Just start.",
			},
			{
				ID:     "tolkien",
				Text:   "Not all those who wander are lost.",
				Author: "J.R.R. Tolkien",
				Reflection: "This one hits different when you're actually lost on a trail. " +
					"But more seriously, it's a beautiful reminder that exploration and curiosity " +
					"are valid life paths, not just detours.",
			},
			{
				ID:     "proust",
				Text:   "The real voyage of discovery consists not in seeking new landscapes, but in having new eyes.",
				Author: "Marcel Proust",
				Reflection: "Travel isn't just about going places—it's about learning to see differently. " +
					"The same principle applies to revisiting familiar places or ideas with fresh perspective.",
			},
		},
	}
}

package search

// Synonym table for the trilingual directory. Each entry groups the French,
// Arabic and English spellings of one domain concept so that a query in any
// of the three languages matches listings stored in another. Matching against
// the table is substring-based in both directions, so partial queries like
// "pharma" or "cardio" still expand.
var synonyms = map[string][]string{
	"doctor": {
		"doctor", "docteur", "médecin", "medecin", "dr", "طبيب", "دكتور",
	},
	"clinic": {
		"clinic", "clinique", "cabinet", "عيادة", "مصحة",
	},
	"hospital": {
		"hospital", "hôpital", "hopital", "chu", "مستشفى",
	},
	"pharmacy": {
		"pharmacy", "pharmacie", "صيدلية",
	},
	"laboratory": {
		"laboratory", "laboratoire", "labo", "analyses", "مخبر", "مختبر",
	},
	"dentist": {
		"dentist", "dentiste", "dentaire", "طبيب أسنان", "أسنان",
	},
	"cardiology": {
		"cardiology", "cardiologie", "cardiologue", "cardio", "قلب", "أمراض القلب",
	},
	"dermatology": {
		"dermatology", "dermatologie", "dermatologue", "peau", "جلدية",
	},
	"pediatrics": {
		"pediatrics", "pédiatrie", "pediatrie", "pédiatre", "أطفال", "طب الأطفال",
	},
	"gynecology": {
		"gynecology", "gynécologie", "gynecologie", "gynécologue", "نساء وتوليد",
	},
	"ophthalmology": {
		"ophthalmology", "ophtalmologie", "ophtalmologue", "yeux", "عيون",
	},
	"radiology": {
		"radiology", "radiologie", "radiologue", "imagerie", "أشعة",
	},
	"emergency": {
		"emergency", "urgence", "urgences", "طوارئ", "استعجالات",
	},
	"general": {
		"general", "généraliste", "generaliste", "médecine générale", "طب عام",
	},
}

// Package assistant generates Lumi's canned chat replies. Responses are
// keyword-matched, not model-generated: the assistant is a guided tour of
// the user's records, and anything needing real inference goes through the
// document pipeline instead.
package assistant

import "strings"

type rule struct {
	keywords []string
	reply    string
}

// First matching rule wins, so more specific topics sit above broader ones.
var rules = []rule{
	{
		keywords: []string{"lab", "test", "result"},
		reply:    "Based on your recent lab results, your cholesterol levels have improved since your last test. Your HDL is now within the optimal range, though your LDL is still slightly elevated. I recommend continuing with your current diet and exercise regimen.",
	},
	{
		keywords: []string{"screening", "preventive", "check"},
		reply:    "Based on your age and health profile, I recommend scheduling these preventive screenings: annual physical exam, cholesterol screening, and blood pressure check. Since you're over 45, you should also consider colorectal cancer screening. Would you like me to provide more details on any of these?",
	},
	{
		keywords: []string{"sleep"},
		reply:    "To improve your sleep quality, consider these evidence-based tips: maintain a consistent sleep schedule, limit screen time before bed, ensure your bedroom is dark and cool, avoid caffeine after noon, and try relaxation techniques like deep breathing before bedtime. Your health records show you've mentioned sleep issues during your last two appointments.",
	},
	{
		keywords: []string{"vision", "prescription", "eye"},
		reply:    "In your vision prescription, the numbers represent diopters. Your right eye (-1.75) and left eye (-2.00) values indicate mild nearsightedness. The cylinder values (-0.50 and -0.75) correct for astigmatism. Your prescription hasn't changed significantly since your last exam 10 months ago.",
	},
	{
		keywords: []string{"vaccine", "vaccination", "immunization"},
		reply:    "According to your records, you're due for your annual flu shot this month. Also, your Tdap booster will be due next year. Your COVID-19 vaccination is up to date with the latest booster received 6 months ago.",
	},
	{
		keywords: []string{"dental", "teeth"},
		reply:    "Your last dental visit was 4 months ago for a routine cleaning. The dentist noted minor plaque buildup on your lower molars and recommended more thorough flossing in that area. Your next dental checkup is scheduled for 2 months from now.",
	},
	{
		keywords: []string{"medication", "medicine", "pill"},
		reply:    "I see you're currently taking Vitamin D (1000 IU twice daily) and Lisinopril (10mg once daily). Your Lisinopril prescription needs to be refilled within the next week. Would you like me to remind you about this again tomorrow?",
	},
	{
		keywords: []string{"exercise", "workout", "activity"},
		reply:    "Based on your health profile, I recommend aiming for 150 minutes of moderate aerobic activity weekly, plus muscle-strengthening activities twice a week. Walking, swimming, or cycling would be excellent choices given your joint health history. Your records show you've been increasingly active over the past 3 months - great progress!",
	},
	{
		keywords: []string{"diet", "nutrition", "eat"},
		reply:    "Looking at your health data, I'd recommend increasing your daily water intake and adding more fiber-rich foods to your diet. Your last blood work showed slightly low vitamin D levels, so consider foods rich in vitamin D or spending more time outdoors. Would you like some specific meal suggestions?",
	},
}

const defaultReply = "I don't have specific information about that in your health records. Would you like me to provide general health guidance on this topic, or can I help with something else?"

// Respond returns the canned reply for the first keyword match, or the
// default reply when nothing matches.
func Respond(message string) string {
	lower := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.reply
			}
		}
	}
	return defaultReply
}

package quiz

import "github.com/disasterprep/backend/internal/models"

// staticSafetyInfo holds curated drill instructions that take precedence over
// generated content. Curriculum-reviewed modules go here.
var staticSafetyInfo = map[string][]models.SafetyInfoCard{
	"hurricane-drill": {
		{
			Title: "Drill Start: Initial Actions",
			Points: []string{
				"You will receive a simulated 'HURRICANE WARNING' alert via campus notification systems.",
				"Immediately move indoors to your dorm room or a designated campus shelter.",
				"Secure your dorm room: close and lock windows, and draw the blinds.",
				"Move away from windows and exterior doors.",
			},
		},
		{
			Title: "During the Drill: Key Steps",
			Points: []string{
				"Tune into the campus emergency radio station or website for simulated updates.",
				"If instructed, move to a lower level or an interior room/hallway without windows.",
				"Practice the 'duck and cover' position if a 'TORNADO WARNING' is issued as part of the drill.",
				"Do not use elevators. Use stairs if you need to change floors.",
			},
		},
		{
			Title: "Drill Conclusion: All Clear",
			Points: []string{
				"Remain in your safe location until the official 'ALL CLEAR' message is broadcast.",
				"After the drill, discuss the process with your RA or instructor.",
				"Note any challenges or questions you had during the simulation.",
				"Familiarize yourself with the actual campus evacuation routes and shelter locations post-drill.",
			},
		},
	},
	"flood": {
		{
			Title: "Before a Flood",
			Points: []string{
				"Identify campus evacuation routes and high ground locations.",
				"Assemble a go-bag: water, snacks, flashlight, first-aid, medications, essential documents.",
				"Stay informed by signing up for university emergency alerts and local weather apps.",
			},
		},
		{
			Title: "During a Flood",
			Points: []string{
				"Never walk or drive through floodwaters; \"turn around, don't drown!\" even shallow water can be dangerous.",
				"If instructed to evacuate, do so immediately and follow official routes.",
				"If trapped, seek the highest ground possible and wait for rescue. Do not enter attics unless there is an exit point.",
				"Avoid contact with floodwater which can be contaminated and hide hazards like downed power lines.",
			},
		},
		{
			Title: "After a Flood",
			Points: []string{
				"Do not return to flooded areas until authorities declare it safe.",
				"Be aware of structural damage, gas leaks, and electrical hazards; do not turn on utilities until they are checked.",
				"Document any damage with photos or videos for insurance purposes.",
				"Avoid tap water until you are certain it is safe to drink; boil water or use bottled water.",
			},
		},
	},
}

// StaticSafetyInfo returns curated cards for a module, or nil when the module
// relies on generated content.
func StaticSafetyInfo(moduleID string) []models.SafetyInfoCard {
	return staticSafetyInfo[moduleID]
}

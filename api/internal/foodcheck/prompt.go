package foodcheck

import (
	"fmt"
	"strings"

	"food-lens/api/internal/util"
)

const validateSystem = `You are a strict food photo moderator for a dish catalogue.
You receive several photos that a user uploaded for ONE dish, plus the dish name and description they claim.
Judge EVERY image independently:
1. Policy: the image must be a real photograph of food. Reject screenshots, memes, drawings, text-only images,
   nudity, violence, or photos whose main subject is a person.
2. Match: the food visible in the image must plausibly be the claimed dish. Use the description only as context.
Return ONLY a JSON array, one object per image, in the same order as the images were given:
[{"index": 0, "isValid": true, "reason": "short reason"}]
"index" is the zero-based position of the image. "reason" is at most one short sentence.
No markdown, no text outside the JSON.`

const identifySystem = `You are an expert culinary agent.
Analyse the food images the user provided and compare them with the dish they claim.
Decide whether the images show the claimed dish, how confident you are (0.0 to 1.0),
and give a short analysis covering identification, verification and the visible ingredients.
Return ONLY this JSON object, no markdown and no text outside it:
{"status": "success", "data": {"isMatch": true, "confidence": 0.9, "analysis": "..."}}`

func validateSystemPrompt() string { return util.LoadPrompt("validate", "system", validateSystem) }
func identifySystemPrompt() string { return util.LoadPrompt("identify", "system", identifySystem) }

func validateUserText(n int, name, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claimed dish name: %q\n", strings.TrimSpace(name))
	fmt.Fprintf(&b, "Claimed description: %q\n", strings.TrimSpace(description))
	fmt.Fprintf(&b, "There are %d images, indexed 0 to %d in the order they follow. Return exactly %d verdicts.", n, n-1, n)
	return b.String()
}

func identifyUserText(n int, name, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User claims:\n- Name: %q\n- Description: %q\n", strings.TrimSpace(name), strings.TrimSpace(description))
	fmt.Fprintf(&b, "Analyse these %d images:", n)
	return b.String()
}

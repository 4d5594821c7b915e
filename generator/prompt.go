package generator

import (
	"fmt"
	"strings"
)

// Input is the normalized post content fed to the model.
type Input struct {
	Caption   string
	Hashtags  []string
	PriceHint string
	Category  string
	ImageURLs []string
}

const systemPrompt = `You are an expert Amazon listing copywriter. You turn social media
product posts into compliant Amazon-style listings. Respond with a single JSON object and
nothing else. Use exactly these keys:
  "title"            string, 20-200 characters, no promotional claims
  "description"      string, 50-2000 characters, may contain line breaks
  "bulletPoints"     array of 3-5 strings, each under 256 characters, starting with a capital letter
  "keywords"         string, comma-separated search terms
  "price"            string, plain decimal number without currency symbol
  "category"         string
Optionally include, only when the post supports them:
  "color", "dimensions_size", "weight", "primary_use", "included_items" (all strings).
Never use banned phrases such as "best", "#1", "guaranteed", "free shipping", "sale".`

// BuildListingPrompt renders the generation prompt for one post.
func BuildListingPrompt(in Input) Prompt {
	var b strings.Builder
	b.WriteString("Create an Amazon product listing from this social media post.\n\n")
	fmt.Fprintf(&b, "Post caption:\n%s\n", in.Caption)

	if len(in.Hashtags) > 0 {
		fmt.Fprintf(&b, "\nHashtags: %s\n", strings.Join(in.Hashtags, ", "))
	}
	if in.PriceHint != "" {
		fmt.Fprintf(&b, "\nPrice mentioned in the post: %s\n", in.PriceHint)
	}
	if in.Category != "" {
		fmt.Fprintf(&b, "\nProduct category: %s (use this as the \"category\" value)\n", in.Category)
	}
	if len(in.ImageURLs) > 0 {
		fmt.Fprintf(&b, "\nThe post has %d product image(s).\n", len(in.ImageURLs))
	}

	return Prompt{System: systemPrompt, User: b.String()}
}

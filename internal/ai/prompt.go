package ai

import (
	"fmt"
	"strings"
)

const extractPrompt = `You are an expert OCR reader and data extractor for restaurant bills.

You will receive a photo of a bill and you will extract all line items, their names, their *unit prices*, and quantities.
If an item has a quantity (e.g., "2x Fries" or "Fries ..... 2 ..... $price_each"), return the item name as "Fries", its quantity as 2, and the price for a *single unit* of Fries.
If quantity is not specified or is 1, return quantity as 1. Ensure the price is for a single item, not the total for multiple quantities of the same line item.

Also extract subtotal, VAT, delivery and service charge from the image, if present.

Return STRICT JSON only, no markdown and no extra text, matching this schema:
{
  "items": [{"name": "string", "price": number, "quantity": number}],
  "subtotal": number,
  "vat": number,
  "serviceCharge": number,
  "delivery": number
}
If a value is not present in the image, omit it from the JSON.`

func buildSuggestPrompt(itemNames, peopleNames []string) string {
	return fmt.Sprintf(`You are an expert bill splitter. You know which person ordered which items on the bill.

Suggest which person should be assigned which items on the bill.

Items: %s
People: %s

Return STRICT JSON only, no markdown and no extra text: a JSON object mapping each item name to a person name. Only use person names from the list above.`,
		strings.Join(itemNames, ", "),
		strings.Join(peopleNames, ", "),
	)
}

package scanning

// textExtractionPrompt asks for a verbatim OCR dump of the receipt
const textExtractionPrompt = `Please extract all text from this receipt image.
Include item names, prices, taxes, tips, and any other relevant information.
Keep the original structure and line layout as closely as possible.
Do not summarize, correct, or reorder anything.`

// structuredSummaryPrompt asks for a description that a second model call can
// turn into a bill split. The output is free text, not JSON.
const structuredSummaryPrompt = `Analyze this receipt image and describe its contents in a structured format:

- Restaurant or establishment name
- Every individual item with its name and price (one item per line, include quantities if shown)
- Subtotal, tax, tip, and total amounts
- Any special offers, discounts, or service charges

Format the response as clear, structured text that can be easily parsed.
Write amounts as plain numbers without currency symbols. If a value is not on the receipt, say so instead of guessing.`

// ollamaSystemPrompt primes local vision models that lack a strong default persona
const ollamaSystemPrompt = "You are an expert at reading receipts. You carefully read all text in images and report it accurately."

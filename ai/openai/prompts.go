package openai

import "fmt"

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "topics": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "topic": {"type": "string"},
          "attributes": {
            "type": "object",
            "properties": {
              "field": {"type": "string"},
              "sub_field": {"type": "string"},
              "subject_matter": {"type": "string"},
              "relevance": {"type": "string"},
              "potential_impact": {"type": "string"},
              "hotness": {"type": "string", "enum": ["High", "Medium", "Low"]}
            },
            "required": ["field", "sub_field", "subject_matter", "relevance", "potential_impact", "hotness"],
            "additionalProperties": false
          }
        },
        "required": ["topic", "attributes"],
        "additionalProperties": false
      }
    }
  },
  "required": ["topics"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `Analyze the provided text and extract topics suitable for creating knowledge
capsules. Each topic must be concise and specific enough to be effectively
covered in a 15-minute session.

Output ONLY valid JSON which complies with the schema given below. Do not
include any preamble, explanation, greeting, or acknowledgment. Start your
response directly with the opening brace { and end with the closing brace }.
Your output must exactly follow this schema:

%s

Rules:
- Extract the primary subjects, topics, or trends discussed in the text. Group
  related ideas under broader topics, but ensure each identified topic is
  narrow enough to be thoroughly addressed in 15 minutes.
- Avoid overly broad or general topics; focus on specific aspects.
- Prefer topics that are impactful, interesting, and affect technology and
  human lives.
- "topic" is the topic heading, at most 5 words, rewritten to sound dynamic
  and interesting to the audience.
- "field" and "sub_field" classify the topic (e.g. "Technology" /
  "Quantum Computing").
- "subject_matter" is a one-line description of what the capsule would cover.
- "relevance" explains in about 20 words how closely the topic aligns with
  current interests and why.
- "potential_impact" explains in about 20 words how directly the topic can be
  applied and its real-world benefit.
- "hotness" rates how trending the topic is, exactly one of "High", "Medium"
  or "Low".
- Compare the extracted topics with each other; retain only distinct topics
  that represent a range of ideas without overlap.
- If no topics can be identified, return "topics": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and
  no extraneous text outside the object.

Example:
Input: "Researchers demonstrated a lattice-based scheme that resists quantum attacks on RSA."
Output:
{
  "topics": [
    {
      "topic": "Cryptography After Quantum Computers",
      "attributes": {
        "field": "Technology",
        "sub_field": "Cryptography",
        "subject_matter": "Lattice-based encryption as a quantum-resistant replacement for RSA",
        "relevance": "Public-key infrastructure underpins all online security and quantum computers threaten to break it within a decade",
        "potential_impact": "Organizations must migrate certificates and protocols early; the scheme offers a practical drop-in path",
        "hotness": "High"
      }
    }
  ]
}`

// buildSystemPrompt creates the system prompt with the response schema embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(extractionPromptTemplate, extractionResponseSchema)
}

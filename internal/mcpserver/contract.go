package mcpserver

// NoteFormatContract describes the canonical note format that LLM
// consumers should follow when creating notes.
const NoteFormatContract = `# Muninn Note Format Contract

Every note stored in the Muninn vault MUST follow this structure.

## Structure

` + "```" + `markdown
---
id: topic.example_slug          # REQUIRED - <type>.<slug>, unique, immutable
type: topic                     # REQUIRED - topic|org|person|project|decision|log
title: "Human-readable title"   # REQUIRED
aliases: []                     # OPTIONAL - alternate names, used in scoring
tags: []                        # OPTIONAL - used in scoring and filtering
created: 2025-01-15             # REQUIRED - ISO date
updated: 2025-01-15             # REQUIRED - ISO date, must be >= created
links:                          # OPTIONAL - typed, directed edges to other notes
  - rel: uses
    to: topic.other_note
sources: []                     # OPTIONAL - opaque source references
confidence: medium              # OPTIONAL - high|medium|low, defaults to medium
---
# Title

Body text in standard Markdown. The body feeds keyword matching.
` + "```" + `

## Rules

1. **YAML frontmatter is mandatory.** The ` + "`---`" + ` fences must open the file.
2. **The id prefix must match the type field.** ` + "`topic.rag`" + ` is a topic.
3. **Links are typed edges**, not free text: each entry is a ` + "`rel`" + `/` + "`to`" + ` pair
   where ` + "`to`" + ` is another note id. The target does not have to exist yet;
   dangling links are tolerated.
4. **Dates** use ` + "`YYYY-MM-DD`" + `. Update ` + "`updated`" + ` whenever the note changes;
   the recency selector reads it.
5. **File location** follows the type: topics/, orgs/, people/, projects/,
   decisions/, logs/. File names are the slug plus ` + "`.md`" + `.
6. **Frontmatter keys are English schema fields.** Values and body content
   may use any language; scoring tokenises non-Latin scripts too.
7. **One concept per note.** Split broad material into linked notes rather
   than growing a single file.
`

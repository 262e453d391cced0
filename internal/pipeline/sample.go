package pipeline

import "scenariogen/internal/source"

// Built-in sample corpus for quick-test runs. It stands in for all three
// sources so the full pipeline can be exercised without Confluence access,
// image files, or a spreadsheet.

const samplePRD = `=== Rich Text Editor for Work Experience ===
Feature: Add rich text editing support to the work experience description
field on candidate profiles.

Requirements:
1. Users can format text with bold, italic, underline, and bullet lists.
2. Formatting is preserved when the profile is saved and reloaded.
3. The editor falls back to plain text entry when JavaScript is disabled.
4. Pasted content from external editors is sanitized to the supported
   formatting subset.
5. Maximum description length is 5000 characters including markup.
6. Existing plain-text descriptions render unchanged until first edit.

Acceptance criteria:
- Formatted descriptions display identically in profile view and PDF export.
- Saving a description over the length limit shows a validation error and
  keeps the user's draft intact.`

const sampleImageAnalysis = `=== Image Analysis 1: work_experience_editor.png ===
The screen shows a candidate profile edit form with a rich text toolbar
above the work experience description field. The toolbar contains bold,
italic, underline, and bullet list buttons plus an undo control. A character
counter below the field reads "1240 / 5000". Primary action "Save" and
secondary "Cancel" buttons sit at the bottom right. The toolbar buttons have
no visible keyboard focus indicators, and the counter color does not change
as the limit approaches.`

const sampleImpactAreas = `=== IMPACTED AREAS ===
Sheet: Impact
Rows: 3 data rows
Columns: Module | Area | Change Type | Risk
Entry 1:
- Module: Candidate Profile
- Area: Work experience form
- Change Type: Field replaced with rich text editor
- Risk: High
Entry 2:
- Module: Profile View
- Area: Description rendering
- Change Type: HTML rendering of stored markup
- Risk: Medium
Entry 3:
- Module: PDF Export
- Area: Description section
- Change Type: Markup converted for print layout
- Risk: Medium`

func sampleInputs() []source.Input {
	return []source.Input{
		{Kind: source.KindConfluence, Name: "sample PRD", Text: samplePRD},
		{Kind: source.KindImage, Name: "sample UI analysis", Text: sampleImageAnalysis},
		{Kind: source.KindExcel, Name: "sample impact areas", Text: sampleImpactAreas},
	}
}

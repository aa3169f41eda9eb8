package static

import _ "embed"

// SkillMd contains the embedded skill.md usage guide served to AI agents.
//
//go:embed skill.md
var SkillMd string

// IndexHTML contains the embedded landing page.
//
//go:embed index.html
var IndexHTML string

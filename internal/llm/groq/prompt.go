package groq

import (
	"fmt"
	"strings"
	"time"
)

// maxSectionChars bounds the resume and job description sections so the
// prompt stays inside the model's context window.
const maxSectionChars = 2000

// BuildPrompt assembles the cover letter drafting prompt. Resume and job
// description content are embedded verbatim, truncated to maxSectionChars.
func BuildPrompt(resumeText, jobDescription, senderName string, now time.Time) string {
	var b strings.Builder

	b.WriteString("Create a professional, ATS-optimized cover letter based on the following resume and job description.\n\n")

	b.WriteString("RESUME:\n")
	b.WriteString(Truncate(resumeText, maxSectionChars))
	b.WriteString("\n\n")

	b.WriteString("JOB DESCRIPTION:\n")
	b.WriteString(Truncate(jobDescription, maxSectionChars))
	b.WriteString("\n\n")

	b.WriteString("Instructions:\n")
	b.WriteString("1. Create a formal, well-structured cover letter\n")
	b.WriteString("2. Match relevant skills and experiences from the resume to the job requirements\n")
	b.WriteString("3. Use a professional tone and format\n")
	b.WriteString("4. Include a compelling introduction, 2-3 paragraphs for the body, and a confident closing\n")
	b.WriteString("5. Make it ATS-friendly by including relevant keywords from the job description\n")
	b.WriteString("6. Keep it under 400 words\n")
	fmt.Fprintf(&b, "7. Format it as a business letter dated %s, addressed to the hiring manager\n", now.Format("January 2, 2006"))
	if name := strings.TrimSpace(senderName); name != "" {
		fmt.Fprintf(&b, "8. Sign the letter as %s\n", name)
	}
	b.WriteString("\nThe cover letter should be ready to use without any additional instructions or explanations.\n")

	return b.String()
}

// Truncate cuts s to at most n bytes on a rune boundary.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	// Back off to the last complete rune.
	for len(cut) > 0 && cut[len(cut)-1] >= 0x80 && cut[len(cut)-1] < 0xC0 {
		cut = cut[:len(cut)-1]
	}
	if len(cut) > 0 && cut[len(cut)-1] >= 0xC0 {
		cut = cut[:len(cut)-1]
	}
	return cut
}

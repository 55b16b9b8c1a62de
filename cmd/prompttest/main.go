package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/jobdesc"
	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/llm/groq"
	"coverletter-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	resumePath := flag.String("resume", "", "Path to resume file (pdf or docx)")
	jdPath := flag.String("jd", "", "Path to job description text file")
	jdURL := flag.String("jd-url", "", "Job posting URL to scrape instead of -jd")
	sender := flag.String("sender", "", "Sender name signed at the bottom")
	temperature := flag.Float64("temperature", 0, "Sampling temperature in [0,1]; 0 uses the provider default")
	outPath := flag.String("out", "", "Path to write the letter text (optional)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}
	if strings.TrimSpace(*jdPath) == "" && strings.TrimSpace(*jdURL) == "" {
		exitErr("one of -jd or -jd-url is required")
	}

	mimeType, err := mimeFromExt(*resumePath)
	if err != nil {
		exitErr(err.Error())
	}

	resumeBytes, err := os.ReadFile(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}

	resumeText, err := extract.ExtractTextFromBytes(context.Background(), resumeBytes, mimeType, filepath.Base(*resumePath))
	if err != nil {
		exitErr(fmt.Sprintf("extract resume text: %v", err))
	}

	jobDescription, err := loadJobDescription(*jdPath, *jdURL)
	if err != nil {
		exitErr(err.Error())
	}

	client, err := buildClient(*provider, *model)
	if err != nil {
		exitErr(err.Error())
	}

	letter, err := client.GenerateLetter(context.Background(), llm.GenerateInput{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		SenderName:     strings.TrimSpace(*sender),
		Temperature:    float32(*temperature),
	})
	if err != nil {
		exitErr(fmt.Sprintf("llm generate: %v", err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(letter), 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}

	fmt.Println(letter)
}

func loadJobDescription(jdPath, jdURL string) (string, error) {
	if strings.TrimSpace(jdPath) != "" {
		jdBytes, err := os.ReadFile(jdPath)
		if err != nil {
			return "", fmt.Errorf("read job description: %v", err)
		}
		return jobdesc.Clean(string(jdBytes)), nil
	}
	fetched, err := jobdesc.NewFetcher().FromURL(context.Background(), jdURL)
	if err != nil {
		return "", fmt.Errorf("fetch job description: %v", err)
	}
	return fetched, nil
}

func buildClient(provider, model string) (llm.Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "groq":
		return groq.NewClient(os.Getenv("GROQ_API_KEY"), model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func mimeFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf", nil
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document", nil
	default:
		return "", fmt.Errorf("unsupported resume file type: %s", filepath.Ext(path))
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

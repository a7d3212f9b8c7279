package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-parser/internal/cv"
	"github.com/spigell/cv-parser/internal/logger"
)

const (
	PromptPrint          = "Print record as JSON"
	PromptDumpToFile     = "Dump record to file"
	PromptReportByDomain = "Report by skill domains"
	PromptExit           = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptPrint, PromptDumpToFile, PromptReportByDomain, PromptExit},
}

var processCmd = &cobra.Command{
	Use:   "process FILE",
	Short: "Process a local CV document and print the resulting record",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		process(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().String("draft", "", "normalize this draft JSON instead of asking the model")
	processCmd.Flags().BoolP("yes", "y", false, "print the record and exit without the interactive menu")
}

func process(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger, err := logger.New(logger.Options{
		JSON:    viper.GetBool("json"),
		Debug:   viper.GetBool("debug"),
		Service: app,
		Version: version,
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading cv", zap.Error(err))
	}

	filename := filepath.Base(path)
	draftFile, _ := cmd.Flags().GetString("draft")

	var record *cv.EmployeeRecord
	if draftFile != "" {
		record, err = processWithDraft(ctx, config, logger, filename, data, draftFile)
	} else {
		record, err = processWithModel(ctx, config, logger, filename, data)
	}
	if err != nil {
		logger.Fatal("processing cv", zap.String("filename", filename), zap.Error(err))
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		if err := printRecord(record); err != nil {
			logger.Fatal("printing record", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, record); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func processWithModel(ctx context.Context, config *Config, logger *zap.Logger, filename string, data []byte) (*cv.EmployeeRecord, error) {
	extractor, release, err := newExtractor(ctx, config, logger, nil)
	if err != nil {
		return nil, fmt.Errorf("creating the extractor: %w", err)
	}
	defer release()

	return newProcessor(config, extractor, logger).Process(ctx, filename, data)
}

func processWithDraft(ctx context.Context, config *Config, logger *zap.Logger, filename string, data []byte, draftFile string) (*cv.EmployeeRecord, error) {
	raw, err := os.ReadFile(draftFile)
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}

	draft, err := cv.DecodeDraft(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding draft %s: %w", draftFile, err)
	}

	return newProcessor(config, nil, logger).ProcessDraft(ctx, filename, data, draft)
}

func handleAction(action string, logger *zap.Logger, record *cv.EmployeeRecord) error {
	switch action {
	case PromptPrint:
		return printRecord(record)
	case PromptDumpToFile:
		filename, err := dumpToTmpFile(record)
		if err != nil {
			return fmt.Errorf("dump record to file: %w", err)
		}
		logger.Info("dumping record to file", zap.String("filename", filename))
		return nil
	case PromptReportByDomain:
		pretty, _ := json.MarshalIndent(domainReport(record), "", "  ")
		logger.Info(string(pretty), zap.Int("skills count", len(record.AllSkills)))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

type report struct {
	Domains        []cv.DomainTotal `json:"domains"`
	PrimarySkill   string           `json:"primarySkill"`
	SecondarySkill string           `json:"secondarySkill"`
	TopSkill       string           `json:"topSkill"`
	RunnerUpSkill  string           `json:"runnerUpSkill"`
	Experience     float64          `json:"experienceYears"`
	Jobs           []jobSpan        `json:"jobs"`
}

type jobSpan struct {
	Company string `json:"company"`
	Days    int    `json:"days"`
	Skipped string `json:"skipped,omitempty"`
}

func domainReport(record *cv.EmployeeRecord) report {
	top, runnerUp := cv.RankSkills(record.AllSkills)

	now := time.Now()
	jobs := make([]jobSpan, 0, len(record.WorkExperience))
	for _, w := range record.WorkExperience {
		span := jobSpan{Company: w.Company}
		days, err := cv.EntryDays(w, now)
		if err != nil {
			span.Skipped = err.Error()
		} else {
			span.Days = days
		}
		jobs = append(jobs, span)
	}

	return report{
		Domains:        cv.DomainTotals(record.AllSkills),
		PrimarySkill:   record.PrimarySkill,
		SecondarySkill: record.SecondarySkill,
		TopSkill:       top,
		RunnerUpSkill:  runnerUp,
		Experience:     record.ExperienceYears,
		Jobs:           jobs,
	}
}

func printRecord(record *cv.EmployeeRecord) error {
	pretty, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(pretty))
	return err
}

func dumpToTmpFile(record *cv.EmployeeRecord) (string, error) {
	f, err := os.CreateTemp("", app+"-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return "", err
	}

	return f.Name(), nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"journalgrader/config"
	"journalgrader/db"
	"journalgrader/internal/logger"
	"journalgrader/models"
	"journalgrader/services"
)

var (
	configPath string
	modeFlag   string
	promptFlag string
	student    string
	sectionIn  = map[models.SectionKey]*string{}
)

var rootCmd = &cobra.Command{
	Use:           "critique",
	Short:         "Critique argumentative journal entries from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade one journal entry and print the critique table",
	Example: `  critique grade --mode "Main Claim Only" --student "Jane Doe" \
    --prompt "Discuss ambition in Macbeth" --main-claim "Ambition corrupts morality."`,
	RunE: runGrade,
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List journal entry modes and the sections each requires",
	RunE: func(cmd *cobra.Command, _ []string) error {
		writeModes(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config/config.yml", "path to config file")

	gradeCmd.Flags().StringVar(&modeFlag, "mode", string(models.ModeClaimOnly), "journal entry mode (tag or label)")
	gradeCmd.Flags().StringVar(&promptFlag, "prompt", "", "the task prompt given to the student")
	gradeCmd.Flags().StringVar(&student, "student", "", "student name recorded with the submission")
	for _, key := range models.SectionOrder {
		flagName := strings.ReplaceAll(string(key), "_", "-")
		sectionIn[key] = gradeCmd.Flags().String(flagName, "", "text of the "+key.Label())
	}

	rootCmd.AddCommand(gradeCmd, modesCmd)
}

func runGrade(cmd *cobra.Command, _ []string) error {
	mode, err := models.ParseMode(modeFlag)
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer appLog.Sync()

	ctx := context.Background()
	gen, err := services.NewGenerator(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	audit, err := db.OpenAuditStore(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	defer audit.Close(context.Background())

	sections := models.SubmittedSections{}
	for _, key := range mode.Sections() {
		sections[key] = *sectionIn[key]
	}

	grader := services.NewGrader(services.NewCritic(gen, appLog), audit, appLog)
	graded, err := grader.Grade(ctx, models.Submission{
		Prompt:      promptFlag,
		StudentName: student,
		Mode:        mode,
		Sections:    sections,
	})
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return fmt.Errorf("missing required flags: %s", strings.Join(flagNames(vErr.Missing), ", "))
		}
		return err
	}
	writeCritique(cmd.OutOrStdout(), graded)
	return nil
}

// flagNames maps validation field names to the flags that set them.
func flagNames(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		switch f {
		case services.FieldStudentName:
			out = append(out, "--student")
		default:
			out = append(out, "--"+strings.ReplaceAll(f, "_", "-"))
		}
	}
	return out
}

func writeModes(w io.Writer) {
	for _, m := range models.Modes() {
		keys := make([]string, 0, 6)
		for _, k := range m.Sections() {
			keys = append(keys, string(k))
		}
		fmt.Fprintf(w, "%-30s %-45s %s\n", m, m.Label(), strings.Join(keys, ","))
	}
}

func writeCritique(w io.Writer, graded *models.GradedSubmission) {
	fmt.Fprintf(w, "%s (%s)\n", graded.ModeLabel, graded.StudentName)
	for _, row := range graded.Rows {
		fmt.Fprintf(w, "\n== %s ==\n", strings.ToUpper(row.Label))
		fmt.Fprintf(w, "Student input:\n%s\n\n", row.Input)
		fmt.Fprintf(w, "Critique:\n%s\n", row.Critique)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

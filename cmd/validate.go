package cmd

import (
	"errors"
	"fmt"

	"github.com/abhisek/worksheetz/internal/batch"
	"github.com/abhisek/worksheetz/internal/config"
	"github.com/abhisek/worksheetz/internal/report"
	"github.com/abhisek/worksheetz/internal/store"
	"github.com/abhisek/worksheetz/internal/validate"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a batch of tasks from a JSON or YAML file",
	Long: `Validate a batch of tasks read from file, or from stdin when file is
omitted or "-". The document is either a list of task objects or an object
with "tasks" and optional "subject" and "grade" keys.

Exit status is 0 for a valid batch, 1 when the batch has errors and 2 when
the subject, grade or document itself is unusable.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	name := "-"
	if len(args) == 1 {
		name = args[0]
	}
	var b *batch.Batch
	if name == "-" {
		b, err = batch.Read(cmd.InOrStdin(), batch.FormatAuto)
	} else {
		b, err = batch.ReadFile(name)
	}
	if err != nil {
		return &exitError{code: exitContract, err: err}
	}

	subject, grade, err := batchContext(cmd, cfg, b)
	if err != nil {
		return &exitError{code: exitContract, err: err}
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	engine, err := validate.New(engineCfg)
	if err != nil {
		return err
	}

	res, err := engine.Validate(b.Tasks, subject, grade)
	if err != nil {
		return &exitError{code: exitContract, err: err}
	}

	if noRecord, _ := cmd.Flags().GetBool("no-record"); !noRecord {
		recordRun(cmd, cfg, store.RunRecord{
			Subject:   subject,
			Grade:     grade,
			TaskCount: len(b.Tasks),
			Result:    res,
		})
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		err = report.JSON(out, res)
	} else {
		plain, _ := cmd.Flags().GetBool("plain")
		title := ""
		if name != "-" {
			title = name
		}
		err = report.Text(out, res, report.Options{Title: title, TaskCount: len(b.Tasks), Plain: plain})
	}
	if err != nil {
		return err
	}

	if !res.Valid {
		return &exitError{code: exitInvalid}
	}
	return nil
}

// batchContext picks subject and grade from flags, then the document, then
// config defaults.
func batchContext(cmd *cobra.Command, cfg *config.Config, b *batch.Batch) (validate.Subject, int, error) {
	subjectName := cfg.Defaults.Subject
	if b.Subject != "" {
		subjectName = b.Subject
	}
	if cmd.Flags().Changed("subject") {
		subjectName, _ = cmd.Flags().GetString("subject")
	}
	subject, err := validate.ParseSubject(subjectName)
	if err != nil {
		return "", 0, err
	}

	grade := cfg.Defaults.Grade
	if b.Grade != 0 {
		grade = b.Grade
	}
	if cmd.Flags().Changed("grade") {
		grade, _ = cmd.Flags().GetInt("grade")
	}
	if grade == 0 {
		return "", 0, errors.New("grade is required: pass --grade or set it in the document")
	}
	return subject, grade, nil
}

// recordRun appends the verdict to the run log. Failures only warn.
func recordRun(cmd *cobra.Command, cfg *config.Config, rec store.RunRecord) {
	s, err := openStore(cmd, cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: run not recorded: %v\n", err)
		return
	}
	defer s.Close()

	run, err := s.RunRepo().Append(cmd.Context(), rec)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: run not recorded: %v\n", err)
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "recorded run %s\n", run.RunID)
}

func init() {
	validateCmd.Flags().StringP("subject", "s", "", "School subject (math, russian, history, ...)")
	validateCmd.Flags().IntP("grade", "g", 0, "School grade (1-11)")
	validateCmd.Flags().Bool("json", false, "Print the result as JSON")
	validateCmd.Flags().Bool("plain", false, "Disable colors and styling")
	validateCmd.Flags().Bool("no-record", false, "Do not append the result to the run log")
}

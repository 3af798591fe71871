package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/ocdcare/pkg/service/quiz"
	"github.com/urfave/cli/v3"
)

func cmdQuiz() *cli.Command {
	var answers []string

	return &cli.Command{
		Name:      "quiz",
		Usage:     "Score the 30-question questionnaire",
		ArgsUsage: "[yes|no ...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "answers",
				Aliases:     []string{"a"},
				Usage:       "Comma separated yes/no answers in question order",
				Destination: &answers,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			tokens := answers
			if len(tokens) == 0 {
				tokens = c.Args().Slice()
			}
			verdict, err := quiz.New().Score(quiz.ParseAnswers(tokens))
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Debug("Questionnaire scored", "yes", verdict.Counts.Yes)
			return writeJSON(c.Root().Writer, verdict)
		},
	}
}

package main

import (
	"context"
	"encoding/json"
	"os"

	"quizadmin/internal/client"
	"quizadmin/internal/models"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app     = kingpin.New("quizctl", "Quiz admin command line client")
	server  = app.Flag("server", "Base URL of the quiz API").Envar("QUIZ_API_URL").Default("http://localhost:8080").String()
	verbose = app.Flag("verbose", "Enable debug logging").Short('v').Bool()

	quizCmd = app.Command("quiz", "Manage quizzes")

	quizListCmd     = quizCmd.Command("list", "List quizzes with their questions")
	quizGetCmd      = quizCmd.Command("get", "Show one quiz with its questions")
	quizGetID       = quizGetCmd.Arg("id", "Quiz id").Required().String()
	quizPopulateCmd = quizCmd.Command("populate", "Show one quiz with its filtered questions")
	quizPopulateID  = quizPopulateCmd.Arg("id", "Quiz id").Required().String()

	quizCreateCmd   = quizCmd.Command("create", "Create a quiz")
	quizCreateTitle = quizCreateCmd.Flag("title", "Quiz title").Required().String()
	quizCreateDesc  = quizCreateCmd.Flag("description", "Quiz description").String()

	quizUpdateCmd   = quizCmd.Command("update", "Edit a quiz")
	quizUpdateID    = quizUpdateCmd.Arg("id", "Quiz id").Required().String()
	quizUpdateTitle = quizUpdateCmd.Flag("title", "New title").Action(markPassed("quiz.title")).String()
	quizUpdateDesc  = quizUpdateCmd.Flag("description", "New description").Action(markPassed("quiz.description")).String()

	quizDeleteCmd = quizCmd.Command("delete", "Delete a quiz that has no questions")
	quizDeleteID  = quizDeleteCmd.Arg("id", "Quiz id").Required().String()

	quizAddCmd      = quizCmd.Command("add-question", "Create a question and add it to a quiz")
	quizAddID       = quizAddCmd.Arg("id", "Quiz id").Required().String()
	quizAddText     = quizAddCmd.Flag("text", "Question text").Required().String()
	quizAddOptions  = quizAddCmd.Flag("option", "Answer option, repeatable").Strings()
	quizAddKeywords = quizAddCmd.Flag("keywords", "Comma separated keywords").String()
	quizAddCorrect  = quizAddCmd.Flag("correct", "Index of the correct option").Default("0").Int()

	questionCmd = app.Command("question", "Manage questions")

	questionListCmd = questionCmd.Command("list", "List questions")
	questionGetCmd  = questionCmd.Command("get", "Show one question")
	questionGetID   = questionGetCmd.Arg("id", "Question id").Required().String()

	questionCreateCmd      = questionCmd.Command("create", "Create a standalone question")
	questionCreateText     = questionCreateCmd.Flag("text", "Question text").Required().String()
	questionCreateOptions  = questionCreateCmd.Flag("option", "Answer option, repeatable").Strings()
	questionCreateKeywords = questionCreateCmd.Flag("keywords", "Comma separated keywords").String()
	questionCreateCorrect  = questionCreateCmd.Flag("correct", "Index of the correct option").Default("0").Int()

	questionUpdateCmd      = questionCmd.Command("update", "Edit a question")
	questionUpdateID       = questionUpdateCmd.Arg("id", "Question id").Required().String()
	questionUpdateText     = questionUpdateCmd.Flag("text", "New text").Action(markPassed("question.text")).String()
	questionUpdateOptions  = questionUpdateCmd.Flag("option", "Replacement answer options, repeatable").Action(markPassed("question.option")).Strings()
	questionUpdateKeywords = questionUpdateCmd.Flag("keywords", "Replacement comma separated keywords").Action(markPassed("question.keywords")).String()
	questionUpdateCorrect  = questionUpdateCmd.Flag("correct", "Index of the correct option").Action(markPassed("question.correct")).Int()

	questionDeleteCmd = questionCmd.Command("delete", "Delete a question and drop it from every quiz")
	questionDeleteID  = questionDeleteCmd.Arg("id", "Question id").Required().String()
)

var Log = logrus.New()

func main() {
	app.UsageTemplate(kingpin.CompactUsageTemplate).Version("0.1")
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	Log.Formatter = new(logrus.TextFormatter)
	if *verbose {
		Log.Level = logrus.DebugLevel
	}
	Log.Debugf("using quiz API at %s", *server)

	c := client.New(*server, client.NewMemoryCache())
	if err := run(context.Background(), c, command); err != nil {
		Log.Fatalf("%s failed: %s", command, err.Error())
	}
}

func run(ctx context.Context, c *client.Client, command string) error {
	switch command {
	case quizListCmd.FullCommand():
		return printResult(c.ListQuizzes(ctx))
	case quizGetCmd.FullCommand():
		return printResult(c.GetQuiz(ctx, *quizGetID))
	case quizPopulateCmd.FullCommand():
		return printResult(c.PopulateQuiz(ctx, *quizPopulateID))
	case quizCreateCmd.FullCommand():
		quiz, err := c.CreateQuiz(ctx, models.QuizDraft{Title: *quizCreateTitle, Description: *quizCreateDesc})
		if err != nil {
			return err
		}
		Log.Infof("Quiz %q created with id %s", quiz.Title, quiz.ID)
		return printJSON(quiz)
	case quizUpdateCmd.FullCommand():
		quiz, err := c.UpdateQuiz(ctx, *quizUpdateID, quizPatch())
		if err != nil {
			return err
		}
		Log.Infof("Quiz %s updated", quiz.ID)
		return printJSON(quiz)
	case quizDeleteCmd.FullCommand():
		if err := c.DeleteQuiz(ctx, *quizDeleteID); err != nil {
			return err
		}
		Log.Infof("Quiz %s deleted", *quizDeleteID)
		return nil
	case quizAddCmd.FullCommand():
		question, err := c.AddQuestion(ctx, *quizAddID, models.QuestionDraft{
			Text:               *quizAddText,
			Options:            *quizAddOptions,
			Keywords:           keywords(*quizAddKeywords),
			CorrectAnswerIndex: *quizAddCorrect,
		})
		if err != nil {
			return err
		}
		Log.Infof("Question %s added to quiz %s", question.ID, *quizAddID)
		return printJSON(question)
	case questionListCmd.FullCommand():
		return printResult(c.ListQuestions(ctx))
	case questionGetCmd.FullCommand():
		return printResult(c.GetQuestion(ctx, *questionGetID))
	case questionCreateCmd.FullCommand():
		question, err := c.CreateQuestion(ctx, models.QuestionDraft{
			Text:               *questionCreateText,
			Options:            *questionCreateOptions,
			Keywords:           keywords(*questionCreateKeywords),
			CorrectAnswerIndex: *questionCreateCorrect,
		})
		if err != nil {
			return err
		}
		Log.Infof("Question created with id %s", question.ID)
		return printJSON(question)
	case questionUpdateCmd.FullCommand():
		question, err := c.UpdateQuestion(ctx, *questionUpdateID, questionPatch())
		if err != nil {
			return err
		}
		Log.Infof("Question %s updated", question.ID)
		return printJSON(question)
	case questionDeleteCmd.FullCommand():
		if err := c.DeleteQuestion(ctx, *questionDeleteID); err != nil {
			return err
		}
		Log.Infof("Question %s deleted", *questionDeleteID)
		return nil
	default:
		Log.Fatal("Unknown command")
	}
	return nil
}

// quizPatch only includes flags the user actually passed.
func quizPatch() models.QuizPatch {
	var patch models.QuizPatch
	if passed["quiz.title"] {
		patch.Title = quizUpdateTitle
	}
	if passed["quiz.description"] {
		patch.Description = quizUpdateDesc
	}
	return patch
}

func questionPatch() models.QuestionPatch {
	var patch models.QuestionPatch
	if passed["question.text"] {
		patch.Text = questionUpdateText
	}
	if passed["question.option"] {
		patch.Options = questionUpdateOptions
	}
	if passed["question.keywords"] {
		kws := client.ParseKeywords(*questionUpdateKeywords)
		patch.Keywords = &kws
	}
	if passed["question.correct"] {
		patch.CorrectAnswerIndex = questionUpdateCorrect
	}
	return patch
}

// passed records which update flags appeared on the command line.
var passed = map[string]bool{}

func markPassed(name string) kingpin.Action {
	return func(*kingpin.ParseContext) error {
		passed[name] = true
		return nil
	}
}

func keywords(input string) []string {
	if input == "" {
		return nil
	}
	return client.ParseKeywords(input)
}

func printResult(v any, err error) error {
	if err != nil {
		return err
	}
	return printJSON(v)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

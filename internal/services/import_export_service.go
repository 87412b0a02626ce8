package services

import (
	"bytes"
	"cmp"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/authoring"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/cache"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	quizSheet      = "Quiz"
	questionsSheet = "Questions"
	answerSep      = " | "
)

// Import/export columns. Export writes all of them; import needs the
// required ones and reads the others when present.
const (
	colOrder    = "order"
	colType     = "type"
	colQuestion = "question"
	colAnswers  = "answers"
	colCorrect  = "correct"
	colPoints   = "points"
	colRequired = "required"
)

var answerEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`)

var (
	exportColumns   = []string{colOrder, colType, colQuestion, colAnswers, colCorrect, colPoints, colRequired}
	requiredColumns = []string{colType, colQuestion, colAnswers, colCorrect, colPoints}
)

// ImportExportService moves quiz questions in and out of spreadsheets
type ImportExportService interface {
	ImportQuestionsIntoDraft(ctx context.Context, draftID, filename string, reader io.Reader) (*ImportResult, error)
	ExportQuizToExcel(ctx context.Context, quizID uint) ([]byte, error)
	ExportQuizToCSV(ctx context.Context, quizID uint) ([]byte, error)
}

type importExportService struct {
	repo   repositories.QuizRepository
	drafts cache.DraftStore
	logger *slog.Logger
}

func NewImportExportService(repo repositories.QuizRepository, drafts cache.DraftStore, logger *slog.Logger) ImportExportService {
	return &importExportService{
		repo:   repo,
		drafts: drafts,
		logger: logger,
	}
}

// ===== IMPORT OPERATIONS =====

type ImportResult struct {
	TotalRows     int                            `json:"totalRows"`
	ImportedCount int                            `json:"importedCount"`
	ErrorCount    int                            `json:"errorCount"`
	Errors        []models.ImportValidationError `json:"errors"`
	Status        models.ImportStatus            `json:"status"`
	Draft         *DraftResponse                 `json:"draft"`
}

// ImportQuestionsIntoDraft appends one question per data row through the
// authoring operations. Rows with errors are skipped and reported; a row is
// applied whole or not at all.
func (s *importExportService) ImportQuestionsIntoDraft(ctx context.Context, draftID, filename string, reader io.Reader) (*ImportResult, error) {
	s.logger.Info("Starting question import", "draft_id", draftID, "filename", filename)

	session, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		if errors.Is(err, cache.ErrDraftNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		rows, err = readCSVRows(reader)
	case ".xlsx":
		rows, err = readExcelRows(reader)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, ErrEmptyImportFile
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, fmt.Errorf("%w: %s", ErrMissingImportField, col)
		}
	}

	draft := session.Draft
	placeholder := len(draft.Questions) == 1 && isBlankQuestion(&draft.Questions[0])

	result := &ImportResult{
		TotalRows: len(rows) - 1,
		Errors:    make([]models.ImportValidationError, 0),
	}

	var pending []importRow
	for rowIndex, record := range rows[1:] {
		if isEmptyRecord(record) {
			result.TotalRows--
			continue
		}
		row, rowErr := newImportRow(record, headerMap, rowIndex+2)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			result.ErrorCount++
			continue
		}
		pending = append(pending, row)
	}
	sortImportRows(pending)

	for _, row := range pending {
		candidate := draft.Clone()
		if rowErr := applyImportRow(candidate, row.record, headerMap, row.rowNum); rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			result.ErrorCount++
			continue
		}
		draft = candidate
		result.ImportedCount++
	}

	slices.SortStableFunc(result.Errors, func(a, b models.ImportValidationError) int { return cmp.Compare(a.Row, b.Row) })

	if placeholder && result.ImportedCount > 0 {
		if err := draft.RemoveQuestion(0); err != nil {
			return nil, err
		}
	}

	switch {
	case result.ErrorCount == 0:
		result.Status = models.ImportCompleted
	case result.ImportedCount > 0:
		result.Status = models.ImportPartial
	default:
		result.Status = models.ImportValidationFailed
	}

	session.Draft = draft
	if result.ImportedCount > 0 {
		if err := replaceSession(ctx, s.drafts, session); err != nil {
			return nil, err
		}
	}
	result.Draft = newDraftResponse(session)

	s.logger.Info("Question import completed",
		"draft_id", draftID,
		"total_rows", result.TotalRows,
		"imported_count", result.ImportedCount,
		"error_count", result.ErrorCount)

	return result, nil
}

func readCSVRows(reader io.Reader) ([][]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return records, nil
}

func readExcelRows(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := questionsSheet
	if index, err := f.GetSheetIndex(questionsSheet); err != nil || index < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyImportFile
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return rows, nil
}

type importRow struct {
	record []string
	rowNum int
	order  int // 0 when the row has no order value
}

func newImportRow(record []string, headerMap map[string]int, rowNum int) (importRow, *models.ImportValidationError) {
	row := importRow{record: record, rowNum: rowNum}
	i, ok := headerMap[colOrder]
	if !ok || i >= len(record) {
		return row, nil
	}
	raw := strings.TrimSpace(record[i])
	if raw == "" {
		return row, nil
	}
	order, err := strconv.Atoi(raw)
	if err != nil || order < 1 {
		return row, &models.ImportValidationError{
			Row: rowNum, Column: colOrder, Value: raw, Code: "invalid_value",
			Message: "must be a whole number of at least 1",
		}
	}
	row.order = order
	return row, nil
}

// sortImportRows puts rows carrying an order value first, ascending, and keeps
// file order among equal values and for rows without one. The draft assigns
// dense orders as the rows are appended.
func sortImportRows(rows []importRow) {
	slices.SortStableFunc(rows, func(a, b importRow) int {
		switch {
		case a.order == b.order:
			return 0
		case a.order == 0:
			return 1
		case b.order == 0:
			return -1
		}
		return cmp.Compare(a.order, b.order)
	})
}

func applyImportRow(d *authoring.QuizDraft, record []string, headerMap map[string]int, rowNum int) *models.ImportValidationError {
	cell := func(col string) string {
		if i, ok := headerMap[col]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	rowError := func(col, code, message string) *models.ImportValidationError {
		return &models.ImportValidationError{Row: rowNum, Column: col, Message: message, Value: cell(col), Code: code}
	}

	questionType := models.QuestionType(strings.ToLower(cell(colType)))
	if !questionType.IsValid() {
		return rowError(colType, "invalid_type", "must be one of multiple_choice, true_false, text, fill_in_blank")
	}
	text := cell(colQuestion)
	if text == "" {
		return rowError(colQuestion, "required", "question text is required")
	}

	qi := d.AddQuestion()
	if err := d.SetQuestionText(qi, text); err != nil {
		return rowError(colQuestion, "invalid_value", err.Error())
	}
	if err := d.SetQuestionType(qi, questionType); err != nil {
		return rowError(colType, "invalid_type", err.Error())
	}

	switch questionType {
	case models.QuestionMultipleChoice:
		if rowErr := applyChoiceAnswers(d, qi, cell(colAnswers), cell(colCorrect)); rowErr != nil {
			rowErr.Row = rowNum
			rowErr.Value = cell(rowErr.Column)
			return rowErr
		}
	case models.QuestionTrueFalse:
		correct, ok := parseTrueFalse(cell(colCorrect))
		if !ok {
			return rowError(colCorrect, "invalid_value", "must be true or false")
		}
		answer := 0
		if !correct {
			answer = 1
		}
		if err := d.SetCorrectAnswer(qi, answer, false); err != nil {
			return rowError(colCorrect, "invalid_value", err.Error())
		}
	}

	if raw := cell(colPoints); raw != "" {
		points, err := strconv.Atoi(raw)
		if err != nil || points < 1 {
			return rowError(colPoints, "invalid_value", "must be a whole number of at least 1")
		}
		if err := d.SetQuestionPoints(qi, points); err != nil {
			return rowError(colPoints, "invalid_value", err.Error())
		}
	}

	if raw := cell(colRequired); raw != "" {
		required, err := strconv.ParseBool(raw)
		if err != nil {
			return rowError(colRequired, "invalid_value", "must be true or false")
		}
		if err := d.SetQuestionRequired(qi, required); err != nil {
			return rowError(colRequired, "invalid_value", err.Error())
		}
	}

	return nil
}

func applyChoiceAnswers(d *authoring.QuizDraft, qi int, answersCell, correctCell string) *models.ImportValidationError {
	answers := splitAnswers(answersCell)
	if len(answers) < authoring.MinChoiceAnswers || len(answers) > authoring.MaxChoiceAnswers {
		return &models.ImportValidationError{
			Column:  colAnswers,
			Code:    "answer_count",
			Message: fmt.Sprintf("multiple_choice needs between %d and %d answers", authoring.MinChoiceAnswers, authoring.MaxChoiceAnswers),
		}
	}

	for i, text := range answers {
		if i >= len(d.Questions[qi].Answers) {
			if _, err := d.AddAnswer(qi); err != nil {
				return &models.ImportValidationError{Column: colAnswers, Code: "invalid_value", Message: err.Error()}
			}
		}
		if err := d.SetAnswerText(qi, i, text); err != nil {
			return &models.ImportValidationError{Column: colAnswers, Code: "invalid_value", Message: err.Error()}
		}
	}

	for _, raw := range strings.Split(correctCell, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		position, err := strconv.Atoi(raw)
		if err != nil || position < 1 || position > len(answers) {
			return &models.ImportValidationError{
				Column:  colCorrect,
				Code:    "invalid_value",
				Message: fmt.Sprintf("must list answer positions between 1 and %d", len(answers)),
			}
		}
		if err := d.SetAnswerCorrect(qi, position-1, true); err != nil {
			return &models.ImportValidationError{Column: colCorrect, Code: "invalid_value", Message: err.Error()}
		}
	}
	return nil
}

// joinAnswers escapes backslashes and the separator inside answer texts so
// splitAnswers gives them back unchanged.
func joinAnswers(answers []string) string {
	escaped := make([]string, len(answers))
	for i, a := range answers {
		escaped[i] = answerEscaper.Replace(a)
	}
	return strings.Join(escaped, answerSep)
}

// splitAnswers splits on unescaped '|'. Only `\|` and `\\` are escapes;
// any other backslash is kept as written.
func splitAnswers(cell string) []string {
	var (
		answers []string
		current strings.Builder
	)
	flush := func() {
		if a := strings.TrimSpace(current.String()); a != "" {
			answers = append(answers, a)
		}
		current.Reset()
	}
	for i := 0; i < len(cell); i++ {
		switch c := cell[i]; {
		case c == '\\' && i+1 < len(cell) && (cell[i+1] == '|' || cell[i+1] == '\\'):
			current.WriteByte(cell[i+1])
			i++
		case c == '|':
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()
	return answers
}

func parseTrueFalse(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "true", "vrai", "1":
		return true, true
	case "false", "faux", "0":
		return false, true
	}
	return false, false
}

func isBlankQuestion(q *authoring.QuestionDraft) bool {
	if q.ID != 0 || strings.TrimSpace(q.Text) != "" || q.Type != models.QuestionMultipleChoice {
		return false
	}
	for _, a := range q.Answers {
		if a.Text != "" || a.IsCorrect {
			return false
		}
	}
	return true
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportQuizToExcel(ctx context.Context, quizID uint) ([]byte, error) {
	quiz, err := s.getQuizForExport(ctx, quizID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the metadata sheet
	if err := f.SetSheetName(f.GetSheetName(0), quizSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	timeLimit := ""
	if quiz.TimeLimit != nil {
		timeLimit = strconv.Itoa(*quiz.TimeLimit)
	}
	metadata := [][]interface{}{
		{"id", quiz.ID},
		{"formationId", quiz.FormationID},
		{"title", quiz.Title},
		{"description", quiz.Description},
		{"passingScore", quiz.PassingScore},
		{"timeLimit", timeLimit},
		{"isActive", quiz.IsActive},
		{"version", quiz.Version},
		{"questionsCount", quiz.QuestionsCount},
		{"totalPoints", quiz.TotalPoints},
	}
	for i, row := range metadata {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(quizSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write quiz metadata: %w", err)
		}
	}

	index, err := f.NewSheet(questionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for rowIndex, row := range questionRows(quiz) {
		cell, _ := excelize.CoordinatesToCellName(1, rowIndex+1)
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(questionsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write questions: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Quiz exported", "quiz_id", quizID, "format", "xlsx")
	return buf.Bytes(), nil
}

func (s *importExportService) ExportQuizToCSV(ctx context.Context, quizID uint) ([]byte, error) {
	quiz, err := s.getQuizForExport(ctx, quizID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(questionRows(quiz)); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}

	s.logger.Info("Quiz exported", "quiz_id", quizID, "format", "csv")
	return buf.Bytes(), nil
}

func (s *importExportService) getQuizForExport(ctx context.Context, quizID uint) (*models.Quiz, error) {
	quiz, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

// questionRows renders the header and one row per question in the import
// format, so an exported file can be imported back.
func questionRows(quiz *models.Quiz) [][]string {
	rows := [][]string{exportColumns}

	for _, q := range quiz.Questions {
		answers := make([]string, 0, len(q.Answers))
		var correct []string
		for i, a := range q.Answers {
			answers = append(answers, a.Answer)
			if a.IsCorrect {
				correct = append(correct, strconv.Itoa(i+1))
			}
		}

		correctCell := ""
		switch q.Type {
		case models.QuestionMultipleChoice:
			correctCell = strings.Join(correct, ",")
		case models.QuestionTrueFalse:
			correctCell = strconv.FormatBool(len(q.Answers) > 0 && q.Answers[0].IsCorrect)
		}

		rows = append(rows, []string{
			strconv.Itoa(q.Order),
			string(q.Type),
			q.Question,
			joinAnswers(answers),
			correctCell,
			strconv.Itoa(q.Points),
			strconv.FormatBool(q.IsRequired),
		})
	}
	return rows
}

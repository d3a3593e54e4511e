package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCSV_HeaderedTitleAndDescription(t *testing.T) {
	path := writeSource(t, "issues.csv", "title,description\nFix bug,NPE on login\n")

	e, err := New(Config{
		HasHeader:   true,
		Title:       SelectByName("title"),
		Description: selectorPtr(SelectByName("description")),
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Fix bug", records[0].Title)
	require.NotNil(t, records[0].Description)
	assert.Equal(t, "NPE on login", *records[0].Description)
}

func TestExtractCSV_HeaderMatchIsCaseInsensitive(t *testing.T) {
	path := writeSource(t, "issues.csv", "Title,Description\nFix bug,NPE on login\n")

	e, err := New(Config{
		HasHeader:   true,
		Title:       SelectByName("title"),
		Description: selectorPtr(SelectByName("description")),
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Fix bug", records[0].Title)
}

func TestExtractCSV_DuplicateHeaderFirstMatchWins(t *testing.T) {
	path := writeSource(t, "issues.csv", "Title,title\nfirst,second\n")

	e, err := New(Config{HasHeader: true, Title: SelectByName("title")}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "first", records[0].Title)
}

func TestExtractCSV_ByIndexWithoutHeader(t *testing.T) {
	path := writeSource(t, "issues.csv", "Fix bug,NPE on login\nAdd docs,How to install\n")

	e, err := New(Config{
		HasHeader:   false,
		Title:       SelectByIndex(0),
		Description: selectorPtr(SelectByIndex(1)),
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// The first row is data, not a header.
	assert.Equal(t, "Fix bug", records[0].Title)
	assert.Equal(t, "Add docs", records[1].Title)
	require.NotNil(t, records[1].Description)
	assert.Equal(t, "How to install", *records[1].Description)
}

func TestExtractCSV_CombineRemaining(t *testing.T) {
	path := writeSource(t, "issues.csv", "id,title,owner\n7,Crash,alice\n")

	e, err := New(Config{
		HasHeader:        true,
		Title:            SelectByName("title"),
		CombineRemaining: true,
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Crash", records[0].Title)
	require.NotNil(t, records[0].Description)
	// Fragments keep column order and the blank-line separator trails
	// the last fragment too.
	assert.Equal(t, "id: 7\n\nowner: alice\n\n", *records[0].Description)
}

func TestExtractCSV_CombineIsDeterministic(t *testing.T) {
	path := writeSource(t, "issues.csv", "id,title,owner\n7,Crash,alice\n")

	e, err := New(Config{
		HasHeader:        true,
		Title:            SelectByName("title"),
		CombineRemaining: true,
	}, nil)
	require.NoError(t, err)

	first, err := e.Extract(path)
	require.NoError(t, err)
	second, err := e.Extract(path)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, *first[0].Description, *second[0].Description)
}

func TestExtractCSV_CombineWinsOverDescriptionSelector(t *testing.T) {
	path := writeSource(t, "issues.csv", "title,description\nCrash,ignored\n")

	e, err := New(Config{
		HasHeader:        true,
		Title:            SelectByName("title"),
		Description:      selectorPtr(SelectByName("description")),
		CombineRemaining: true,
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Description)
	assert.Equal(t, "description: ignored\n\n", *records[0].Description)
}

func TestExtractCSV_CombineTitleOnlyRowKeepsEmptyDescription(t *testing.T) {
	path := writeSource(t, "issues.csv", "title\nCrash\n")

	e, err := New(Config{
		HasHeader:        true,
		Title:            SelectByName("title"),
		CombineRemaining: true,
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	// Combine mode always yields a description, empty when there is
	// nothing to fold in.
	require.NotNil(t, records[0].Description)
	assert.Empty(t, *records[0].Description)
}

func TestExtractCSV_CombineSynthesizesLabelsWithoutHeader(t *testing.T) {
	path := writeSource(t, "issues.csv", "7,Crash,alice\n")

	e, err := New(Config{
		HasHeader:        false,
		Title:            SelectByIndex(1),
		CombineRemaining: true,
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Description)
	assert.Equal(t, "Column 0: 7\n\nColumn 2: alice\n\n", *records[0].Description)
}

func TestExtractCSV_CombineRowWiderThanHeader(t *testing.T) {
	path := writeSource(t, "issues.csv", "title,id\nCrash,7,extra\n")

	e, err := New(Config{
		HasHeader:        true,
		Title:            SelectByName("title"),
		CombineRemaining: true,
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Description)
	// Fields past the header fall back to synthetic labels.
	assert.Equal(t, "id: 7\n\nColumn 2: extra\n\n", *records[0].Description)
}

func TestExtractCSV_CombineTrimsHeaderLabels(t *testing.T) {
	path := writeSource(t, "issues.csv", "title, id \nCrash,7\n")

	e, err := New(Config{
		HasHeader:        true,
		Title:            SelectByName("title"),
		CombineRemaining: true,
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Description)
	assert.Equal(t, "id: 7\n\n", *records[0].Description)
}

func TestExtractCSV_TitlePrefix(t *testing.T) {
	path := writeSource(t, "issues.csv", "title\nFix bug\n")

	e, err := New(Config{
		HasHeader:   true,
		Title:       SelectByName("title"),
		TitlePrefix: "TODO:",
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "TODO: Fix bug", records[0].Title)
}

func TestExtractCSV_CustomDelimiter(t *testing.T) {
	path := writeSource(t, "issues.csv", "title;description\nFix bug;NPE on login\n")

	e, err := New(Config{
		HasHeader:   true,
		Delimiter:   ';',
		Title:       SelectByName("title"),
		Description: selectorPtr(SelectByName("description")),
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Fix bug", records[0].Title)
	require.NotNil(t, records[0].Description)
	assert.Equal(t, "NPE on login", *records[0].Description)
}

func TestExtractCSV_StripsByteOrderMark(t *testing.T) {
	path := writeSource(t, "issues.csv", "\xEF\xBB\xBFtitle\nFix bug\n")

	e, err := New(Config{HasHeader: true, Title: SelectByName("title")}, nil)
	require.NoError(t, err)

	// Without stripping, the first header cell would be "\uFEFFtitle"
	// and the name lookup would miss.
	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Fix bug", records[0].Title)
}

func TestExtractCSV_QuotedFieldWithEmbeddedNewline(t *testing.T) {
	path := writeSource(t, "issues.csv", "title,description\n\"Fix\nbug\",details\n")

	e, err := New(Config{
		HasHeader:   true,
		Title:       SelectByName("title"),
		Description: selectorPtr(SelectByName("description")),
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Fix\nbug", records[0].Title)
}

func TestExtractCSV_MissingDescriptionFieldTolerated(t *testing.T) {
	path := writeSource(t, "issues.csv", "title,description\nJust a title\n")

	e, err := New(Config{
		HasHeader:   true,
		Title:       SelectByName("title"),
		Description: selectorPtr(SelectByName("description")),
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Just a title", records[0].Title)
	assert.Nil(t, records[0].Description)
}

func TestExtractCSV_ShortRowAbortsWithNoRecords(t *testing.T) {
	path := writeSource(t, "issues.csv", "id,title\n1,first\n2\n")

	e, err := New(Config{HasHeader: true, Title: SelectByName("title")}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.Error(t, err)
	// The first row parsed fine but nothing is returned once any row fails.
	assert.Nil(t, records)

	var rowErr *RowError
	assert.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.Contains(t, err.Error(), "no title field")
}

func TestExtractCSV_TitleIndexOutOfBoundsBeforeRowsRead(t *testing.T) {
	// The second line would fail to parse; the bounds check must fire
	// before the reader ever gets there.
	path := writeSource(t, "issues.csv", "title,description\n\"unterminated\n")

	e, err := New(Config{HasHeader: true, Title: SelectByIndex(5)}, nil)
	require.NoError(t, err)

	_, err = e.Extract(path)
	require.Error(t, err)

	var boundsErr *IndexOutOfBoundsError
	assert.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, "title", boundsErr.Field)
	assert.Equal(t, 5, boundsErr.Index)
	assert.Equal(t, 2, boundsErr.Limit)
}

func TestExtractCSV_DescriptionIndexOutOfBounds(t *testing.T) {
	path := writeSource(t, "issues.csv", "title\nFix bug\n")

	e, err := New(Config{
		HasHeader:   true,
		Title:       SelectByName("title"),
		Description: selectorPtr(SelectByIndex(9)),
	}, nil)
	require.NoError(t, err)

	_, err = e.Extract(path)
	require.Error(t, err)

	var boundsErr *IndexOutOfBoundsError
	assert.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, "description", boundsErr.Field)
}

func TestExtractCSV_NameNotFoundInHeader(t *testing.T) {
	path := writeSource(t, "issues.csv", "id,summary\n1,hello\n")

	e, err := New(Config{HasHeader: true, Title: SelectByName("title")}, nil)
	require.NoError(t, err)

	_, err = e.Extract(path)
	require.Error(t, err)

	var nameErr *NameNotFoundError
	assert.ErrorAs(t, err, &nameErr)
	assert.Contains(t, err.Error(), `could not find a column named "title"`)
}

func TestExtractCSV_FileNotFound(t *testing.T) {
	e, err := New(Config{HasHeader: true, Title: SelectByName("title")}, nil)
	require.NoError(t, err)

	_, err = e.Extract("/nonexistent/issues.csv")
	require.Error(t, err)

	var srcErr *SourceError
	assert.ErrorAs(t, err, &srcErr)
	assert.Contains(t, err.Error(), "could not open file")
}

func TestExtractCSV_EmptyFileWithHeader(t *testing.T) {
	path := writeSource(t, "issues.csv", "")

	e, err := New(Config{HasHeader: true, Title: SelectByName("title")}, nil)
	require.NoError(t, err)

	_, err = e.Extract(path)
	require.Error(t, err)

	var srcErr *SourceError
	assert.ErrorAs(t, err, &srcErr)
	assert.Contains(t, err.Error(), "could not read header row")
}

func TestExtractCSV_EmptyFileWithoutHeader(t *testing.T) {
	path := writeSource(t, "issues.csv", "")

	e, err := New(Config{HasHeader: false, Title: SelectByIndex(0)}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtractCSV_RealisticExport(t *testing.T) {
	e, err := New(Config{
		HasHeader:   true,
		Title:       SelectByName("title"),
		Description: selectorPtr(SelectByName("description")),
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract("testdata/issues.csv")
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "Login fails with SSO enabled", records[0].Title)
	require.NotNil(t, records[0].Description)
	assert.Contains(t, *records[0].Description, "redirect loop")
	assert.Contains(t, *records[0].Description, "2. log out and back in")

	assert.Equal(t, "Export drops rows with commas, sometimes", records[1].Title)

	// An empty description cell still yields a description, just an empty one.
	require.NotNil(t, records[2].Description)
	assert.Empty(t, *records[2].Description)

	assert.Equal(t, "Umlauts broken in mail subjects (ä ö ü)", records[3].Title)
}

func TestExtractCSV_HeaderOnlyYieldsNoRecords(t *testing.T) {
	path := writeSource(t, "issues.csv", "title,description\n")

	e, err := New(Config{
		HasHeader:   true,
		Title:       SelectByName("title"),
		Description: selectorPtr(SelectByName("description")),
	}, nil)
	require.NoError(t, err)

	records, err := e.Extract(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

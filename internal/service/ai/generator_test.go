package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

type fakeChatModel struct {
	content string
	err     error
	block   bool

	calls     int
	lastInput []*schema.Message
	lastOpts  *model.Options
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	f.lastInput = input
	f.lastOpts = model.GetCommonOptions(&model.Options{}, opts...)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (f *fakeChatModel) BindTools([]*schema.ToolInfo) error { return nil }

func newTestGenerator(t *testing.T, fake *fakeChatModel, opts Options) *Generator {
	t.Helper()
	gen, err := NewGenerator(context.Background(), fake, opts)
	require.NoError(t, err)
	return gen
}

func TestGenerateSuccess(t *testing.T) {
	fake := &fakeChatModel{content: `{"html":"<h1>Blog</h1>","css":"h1{color:red}","javascript":"console.log('hi')","title":"My Blog","description":"A blog"}`}
	gen := newTestGenerator(t, fake, Options{})

	site, err := gen.Generate(context.Background(), "Make a blog")
	require.NoError(t, err)

	assert.Equal(t, chat.GeneratedWebsite{
		HTML:        "<h1>Blog</h1>",
		CSS:         "h1{color:red}",
		JavaScript:  "console.log('hi')",
		Title:       "My Blog",
		Description: "A blog",
	}, site)
	assert.Equal(t, 1, fake.calls)
}

func TestGenerateSendsFixedContract(t *testing.T) {
	fake := &fakeChatModel{content: `{"html":"a","css":"b","javascript":"c"}`}
	gen := newTestGenerator(t, fake, Options{})

	_, err := gen.Generate(context.Background(), "Make a {fancy} portfolio")
	require.NoError(t, err)

	require.Len(t, fake.lastInput, 2)
	assert.Equal(t, schema.System, fake.lastInput[0].Role)
	assert.Equal(t, systemPrompt, fake.lastInput[0].Content)
	assert.Equal(t, schema.User, fake.lastInput[1].Role)
	assert.Equal(t, "Make a {fancy} portfolio", fake.lastInput[1].Content)

	require.NotNil(t, fake.lastOpts.Temperature)
	require.NotNil(t, fake.lastOpts.MaxTokens)
	assert.InDelta(t, 0.7, *fake.lastOpts.Temperature, 1e-6)
	assert.Equal(t, 4000, *fake.lastOpts.MaxTokens)
}

func TestGenerateKeepsZeroTemperature(t *testing.T) {
	fake := &fakeChatModel{content: `{"html":"a","css":"b","javascript":"c"}`}
	zero := float32(0)
	gen := newTestGenerator(t, fake, Options{Temperature: &zero, MaxTokens: 512})

	_, err := gen.Generate(context.Background(), "anything")
	require.NoError(t, err)

	require.NotNil(t, fake.lastOpts.Temperature)
	assert.Zero(t, *fake.lastOpts.Temperature)
	assert.Equal(t, 512, *fake.lastOpts.MaxTokens)
}

func TestGenerateAppliesDefaults(t *testing.T) {
	fake := &fakeChatModel{content: `{"html":"a","css":"b","javascript":"c"}`}
	gen := newTestGenerator(t, fake, Options{})

	site, err := gen.Generate(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "Generated Website", site.Title)
	assert.Equal(t, "Generated website", site.Description)
}

func TestGenerateTransportError(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("401 unauthorized")}
	gen := newTestGenerator(t, fake, Options{})

	_, err := gen.Generate(context.Background(), "anything")
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, KindTransport, genErr.Kind)
	assert.ErrorIs(t, err, ErrGeneration)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 1, fake.calls, "no retry")
}

func TestGenerateTimeoutIsTransportError(t *testing.T) {
	fake := &fakeChatModel{block: true}
	gen := newTestGenerator(t, fake, Options{Timeout: 20 * time.Millisecond})

	_, err := gen.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestParseWebsiteMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"prose":       "Sure! Here is your website.",
		"broken json": `{"html": "<p>`,
		"wrong types": `{"html": 1, "css": "b", "javascript": "c"}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseWebsite(content)
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.ErrorIs(t, err, ErrGeneration)
		})
	}
}

func TestParseWebsiteIncomplete(t *testing.T) {
	_, err := ParseWebsite(`{"html":"<p>x</p>","css":"  ","title":"t"}`)
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, KindIncompleteResult, genErr.Kind)
	assert.Equal(t, []string{"css", "javascript"}, genErr.Missing)
	assert.ErrorIs(t, err, ErrIncompleteResult)
	assert.Contains(t, err.Error(), "missing css, javascript")
}

func TestParseWebsiteToleratesFence(t *testing.T) {
	content := "```json\n{\"html\":\"<p>{}</p>\",\"css\":\"p{}\",\"javascript\":\"f()\",\"title\":\"T\"}\n```"
	site, err := ParseWebsite(content)
	require.NoError(t, err)
	assert.Equal(t, "<p>{}</p>", site.HTML)
	assert.Equal(t, "T", site.Title)
}

func TestDisabledGenerator(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestNewGeneratorRequiresModel(t *testing.T) {
	_, err := NewGenerator(context.Background(), nil, Options{})
	assert.Error(t, err)
}

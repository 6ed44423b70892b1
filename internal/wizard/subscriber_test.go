package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/frontvue/internal/config"
)

func TestSubscriberIsOneShot(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWizard(t, nil)
	sub := w.Subscriber()

	ok, err := sub.Subscribe(ctx, config.Config{"question1": "a"}, validQuestionnaire("plugin-a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, sub.Spent())

	ok, err = sub.Subscribe(ctx, config.Config{"question1": "a"}, validQuestionnaire("plugin-b"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotContains(t, w.Questionnaires(), "plugin-b")

	assert.False(t, w.Subscriber().Spent())
}

func TestSubscriberRejectsTakenNamespace(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWizard(t, nil)
	require.True(t, w.AddQuestionnaire(validQuestionnaire("plugin-a")))

	ok, err := w.Subscriber().Subscribe(ctx, config.Config{}, validQuestionnaire("plugin-a"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscriberPromptsOnlyMissingAnswers(t *testing.T) {
	ctx := context.Background()
	prompter := &recordingPrompter{answers: config.Config{"question2": "answered"}}
	w, m := newTestWizard(t, config.Config{"plugin-plugin-a:question1": "stored"}, WithPrompter(prompter))

	defaults := config.Config{"question1": "default1", "question2": "default2"}
	ok, err := w.Subscriber().Subscribe(ctx, defaults, validQuestionnaire("plugin-a"))
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, prompter.asked, 1)
	require.Len(t, prompter.asked[0], 1)
	assert.Equal(t, "question2", prompter.asked[0][0].Name)
	assert.Equal(t, "default2", prompter.asked[0][0].Default)

	all, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.Config{
		"plugin-plugin-a:question1": "stored",
		"plugin-plugin-a:question2": "answered",
	}, all)
}

func TestSubscriberSkipsConfiguredPlugin(t *testing.T) {
	ctx := context.Background()
	prompter := &recordingPrompter{}
	w, _ := newTestWizard(t, config.Config{
		"plugin-plugin-a:question1": "x",
		"plugin-plugin-a:question2": "y",
	}, WithPrompter(prompter))

	ok, err := w.Subscriber().Subscribe(ctx, config.Config{"question1": "a", "question2": "b"}, validQuestionnaire("plugin-a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, prompter.asked)
}

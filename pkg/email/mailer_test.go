package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderkit/orderkit/pkg/email"
)

func TestSendEmailParamsValidate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{
		SendTo:   "owner@trattoria.test",
		Subject:  "New order #A-100",
		BodyHTML: "<p>order</p>",
	}

	t.Run("accepts valid params", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid.Validate())
	})

	t.Run("accepts text-only body", func(t *testing.T) {
		t.Parallel()
		params := valid
		params.BodyHTML = ""
		params.BodyText = "order"
		assert.NoError(t, params.Validate())
	})

	t.Run("rejects missing recipient", func(t *testing.T) {
		t.Parallel()
		params := valid
		params.SendTo = ""
		assert.ErrorIs(t, params.Validate(), email.ErrInvalidParams)
	})

	t.Run("rejects malformed address", func(t *testing.T) {
		t.Parallel()
		for _, addr := range []string{"not-an-email", "a b@c.d", "owner@", "@trattoria.test"} {
			params := valid
			params.SendTo = addr
			assert.ErrorIs(t, params.Validate(), email.ErrInvalidParams, addr)
		}
	})

	t.Run("rejects missing subject", func(t *testing.T) {
		t.Parallel()
		params := valid
		params.Subject = ""
		assert.ErrorIs(t, params.Validate(), email.ErrInvalidParams)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		t.Parallel()
		params := valid
		params.BodyHTML = ""
		assert.ErrorIs(t, params.Validate(), email.ErrInvalidParams)
	})
}

func TestNewSenderFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("disabled without credentials", func(t *testing.T) {
		t.Parallel()

		sender, err := email.NewSenderFromConfig(email.Config{})
		require.NoError(t, err)

		err = sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "owner@trattoria.test",
			Subject:  "New order",
			BodyText: "order",
		})
		assert.ErrorIs(t, err, email.ErrSendingDisabled)
	})

	t.Run("dev sender when only a dev directory is set", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender, err := email.NewSenderFromConfig(email.Config{DevDir: dir})
		require.NoError(t, err)

		err = sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "owner@trattoria.test",
			Subject:  "New order",
			BodyHTML: "<p>order</p>",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.NotEmpty(t, entries)
	})

	t.Run("postmark when fully configured", func(t *testing.T) {
		t.Parallel()

		sender, err := email.NewSenderFromConfig(email.Config{
			PostmarkServerToken:  "server-token",
			PostmarkAccountToken: "account-token",
			SenderEmail:          "noreply@orders.test",
		})
		require.NoError(t, err)
		assert.NotNil(t, sender)
	})
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	t.Run("writes html and metadata files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "owner@trattoria.test",
			Subject:  "New order #A-100",
			BodyHTML: "<h2>New order</h2>",
			BodyText: "New order",
			Tag:      "new-order",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var htmlFile, jsonFile string
		for _, entry := range entries {
			switch filepath.Ext(entry.Name()) {
			case ".html":
				htmlFile = entry.Name()
			case ".json":
				jsonFile = entry.Name()
			}
		}
		require.NotEmpty(t, htmlFile)
		require.NotEmpty(t, jsonFile)
		assert.True(t, strings.HasSuffix(htmlFile, "new-order.html"))

		html, err := os.ReadFile(filepath.Join(dir, htmlFile))
		require.NoError(t, err)
		assert.Equal(t, "<h2>New order</h2>", string(html))

		raw, err := os.ReadFile(filepath.Join(dir, jsonFile))
		require.NoError(t, err)
		var metadata map[string]string
		require.NoError(t, json.Unmarshal(raw, &metadata))
		assert.Equal(t, "owner@trattoria.test", metadata["send_to"])
		assert.Equal(t, "New order #A-100", metadata["subject"])
	})

	t.Run("rejects invalid params before writing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{})
		assert.ErrorIs(t, err, email.ErrInvalidParams)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

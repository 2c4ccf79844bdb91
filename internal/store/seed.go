// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/Azichi/AI-Dashboard/internal/model"
)

// =============================================================================
// DEMO SEED DATA
// =============================================================================

// seedChat describes one scripted demo chat.
type seedChat struct {
	title      string
	greeting   string
	replyQueue []string
}

var seedChats = []seedChat{
	{
		title:    "File summary + action plan",
		greeting: "Local demo. Type anything to step through scripted replies.",
		replyQueue: []string{
			"Demo summary: Revenue up, churn flat, support tickets spiked after last release.\n\nNext actions:\n1) Audit top ticket tags by release\n2) Hotfix plan\n3) Outreach to at-risk users\n4) Add monitoring/alerts",
			"Draft message (demo):\n\nTeam, priorities:\n- P0 Audit support issues by tag + release today\n- P1 Hotfix plan within 48h\n- P1 CS outreach this week\n- P2 Monitoring + alerting\n\nReply with blockers + owners by EOD.",
		},
	},
	{
		title:    "Generate code + explain",
		greeting: "Ask for code and the demo responds with a scripted snippet.",
		replyQueue: []string{
			"Demo endpoint:\n\n```python\nfrom fastapi import FastAPI, UploadFile, File\n\napp = FastAPI()\n\n@app.post('/summarize')\nasync def summarize(file: UploadFile = File(...)):\n    data = await file.read()\n    text = data.decode('utf-8', errors='ignore')\n    summary = (text[:400] + '...') if len(text) > 400 else text\n    return {'filename': file.filename, 'bytes': len(data), 'summary': summary}\n```\n",
			"Security gotchas (demo): validate type/size, rate-limit, avoid logging raw content, store uploads safely, strict CORS.",
		},
	},
	{
		title:    "Tool-style workflow",
		greeting: "Tool-style workflow (scripted) showing the kinds of outputs the live system produces.",
		replyQueue: []string{
			"Demo: cleaned `sales_raw.csv` (12,418 rows). Fixes: removed duplicates, filled nulls, normalized dates.",
			"Top findings (demo):\n- Weekends underperform, shift promo budget to Fri evening\n- One region has higher refunds, audit fulfillment partner SLA\n- Two products drive most growth, expand adjacent SKUs",
		},
	},
}

// Seed populates an empty store with a demo project and scripted chats.
// A store that already has projects is left untouched, so restarting the
// client keeps accumulated local state.
func (s *Store) Seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.loadProjects()
	if err != nil {
		return err
	}
	if len(projects) > 0 {
		return nil
	}

	now := time.Now().UTC()
	project := model.Project{
		ID:        uuid.NewString(),
		Name:      "Demo",
		Model:     "demo",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.saveProjects([]model.Project{project}); err != nil {
		return err
	}

	for _, sd := range seedChats {
		sc := storedChat{
			Chat: model.Chat{
				ID:        uuid.NewString(),
				Title:     sd.title,
				CreatedAt: now,
				UpdatedAt: now,
				Messages: []model.Message{
					{Role: model.RoleAssistant, Content: sd.greeting, Timestamp: now},
				},
			},
			ReplyQueue: append([]string(nil), sd.replyQueue...),
		}
		if err := s.saveChat(project.ID, &sc); err != nil {
			return err
		}
	}

	return nil
}

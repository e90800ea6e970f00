package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Kunjal502/crisis-assitant/internal/agent"
	"github.com/Kunjal502/crisis-assitant/internal/emergency"
	"github.com/Kunjal502/crisis-assitant/internal/plan"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/microcosm-cc/bluemonday"
)

const welcomeMessage = "Hello! I'm your Financial Crisis Assistant. Tell me about your financial situation.\n\nCommands: /step current step, /next when done, /stuck for a simpler alternative, /resources for support links, /reset to start over."

var moodHeadings = map[string]string{
	"panic":       "🧘 Panic me ho? Pehle breathing karo",
	"anxious":     "🧘 Anxiety kam karte hain",
	"depressed":   "🧘 Thoda stable feel karne ke steps",
	"angry":       "🧘 Anger settle karte hain",
	"calm":        "🧘 Calm ho, bas ek steady step",
	"overwhelmed": "🧘 Overwhelmed feel ho raha hai? Pehle calm ho jao",
}

// walkthrough is per-chat presentation state: the agent session plus which
// action step is on screen. The core never sees this.
type walkthrough struct {
	session   *agent.Session
	plan      *plan.Plan
	stepIndex int
}

// TelegramGateway runs the interactive step-by-step walkthrough over
// Telegram. Sessions are per chat; access is serialized here because the
// core does not lock session state.
type TelegramGateway struct {
	Bot         *tgbotapi.BotAPI
	Runner      *agent.Runner
	Reevaluator *agent.Reevaluator
	Contacts    *emergency.Directory
	Fetcher     *emergency.ResourceFetcher
	Region      string

	sanitizer *bluemonday.Policy

	mu       sync.Mutex
	sessions map[int64]*walkthrough
}

func NewTelegramGateway(token string, runner *agent.Runner, reevaluator *agent.Reevaluator, contacts *emergency.Directory, region string) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:         bot,
		Runner:      runner,
		Reevaluator: reevaluator,
		Contacts:    contacts,
		Fetcher:     emergency.NewResourceFetcher(),
		Region:      region,
		sanitizer:   bluemonday.StrictPolicy(),
		sessions:    make(map[int64]*walkthrough),
	}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		reply := tg.handle(update.Message.Chat.ID, update.Message.Text)
		if reply == "" {
			continue
		}

		msg := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
		if _, err := tg.Bot.Send(msg); err != nil {
			log.Printf("Error sending message: %v", err)
		}
	}
	return nil
}

func (tg *TelegramGateway) Send(chatID string, text string) error {
	id := 0
	fmt.Sscanf(chatID, "%d", &id)
	if id == 0 {
		return fmt.Errorf("invalid chat ID: %s", chatID)
	}

	msg := tgbotapi.NewMessage(int64(id), text)
	msg.ParseMode = "Markdown"
	_, err := tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}

func (tg *TelegramGateway) handle(chatID int64, text string) string {
	tg.mu.Lock()
	defer tg.mu.Unlock()

	text = strings.TrimSpace(text)
	switch {
	case text == "/start":
		return welcomeMessage
	case text == "/reset":
		delete(tg.sessions, chatID)
		return "Chat cleared. What financial challenge are you facing?"
	case text == "/step":
		return tg.currentStep(chatID)
	case text == "/next":
		return tg.nextStep(chatID)
	case text == "/stuck":
		return tg.stuck(chatID)
	case text == "/resources":
		return tg.resources()
	case strings.HasPrefix(text, "/"):
		return "I don't know that command. Try /step, /next, /stuck, /resources or /reset."
	default:
		return tg.analyze(chatID, text)
	}
}

// analyze runs one guarded reasoning round for the chat and presents the
// situation, the first calming step and the first action step.
func (tg *TelegramGateway) analyze(chatID int64, text string) string {
	input := strings.TrimSpace(tg.sanitizer.Sanitize(text))
	if input == "" {
		return "Describe your financial situation... (e.g., 'Salary delayed, EMI pending')"
	}

	w, ok := tg.sessions[chatID]
	if !ok {
		w = &walkthrough{session: agent.NewSession(input, agent.DefaultRequestedSteps, false)}
		w.session.ChatID = fmt.Sprintf("%d", chatID)
		tg.sessions[chatID] = w
	} else {
		// Same session carries step_count and the emergency latch forward;
		// the plan is regenerated for the new message.
		w.session.UserInput = input
		w.stepIndex = 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	p, reply := tg.Runner.Run(ctx, w.session)
	w.plan = p

	if p.IsRedirect() {
		if p.RedirectMessage != "" {
			return p.RedirectMessage
		}
		return agent.RedirectMessage
	}

	var b strings.Builder
	if reply.Emergency {
		fmt.Fprintf(&b, "%s\n\n", reply.Message)
	}
	fmt.Fprintf(&b, "Situation: %s (severity: %s)\n", p.CrisisType, p.Severity)

	mood := p.MoodOrDefault()
	heading, ok := moodHeadings[mood]
	if !ok {
		heading = "🧘 Pehle thoda calm ho jao"
	}
	fmt.Fprintf(&b, "Mood detected: %s\n\n%s\n", mood, heading)

	if len(p.CalmingSteps) > 0 {
		first := p.CalmingSteps[0]
		// The guard may have appended the overload-pause notice to the
		// round's instruction; render that over the raw calming step.
		instruction := first.Instruction
		if !reply.Emergency && reply.Message != "" {
			instruction = reply.Message
		}
		fmt.Fprintf(&b, "%s\nDuration: %d seconds\n", instruction, first.DurationSeconds)
	}

	for category, contact := range p.EmergencyContacts {
		fmt.Fprintf(&b, "📞 %s: %s\n", category, contact)
	}

	b.WriteString("\n")
	b.WriteString(tg.formatStep(w))
	return b.String()
}

func (tg *TelegramGateway) currentStep(chatID int64) string {
	w, ok := tg.sessions[chatID]
	if !ok || w.plan == nil || w.plan.IsRedirect() {
		return "Tell me about your financial situation first."
	}
	return tg.formatStep(w)
}

func (tg *TelegramGateway) nextStep(chatID int64) string {
	w, ok := tg.sessions[chatID]
	if !ok || w.plan == nil || w.plan.IsRedirect() {
		return "Tell me about your financial situation first."
	}

	if w.stepIndex < len(w.plan.ActionSteps) {
		w.stepIndex++
	}
	return tg.formatStep(w)
}

func (tg *TelegramGateway) stuck(chatID int64) string {
	w, ok := tg.sessions[chatID]
	if !ok || w.plan == nil || w.plan.IsRedirect() || w.stepIndex >= len(w.plan.ActionSteps) {
		return "There is no active step to re-evaluate. Tell me about your situation first."
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	current := w.plan.ActionSteps[w.stepIndex]
	alt := tg.Reevaluator.ReevaluateStep(ctx, w.session.ChatID, current.Step, w.plan.CrisisType)
	return fmt.Sprintf("Alternative: %s\nEstimated: %d min", alt.Step, alt.EstimatedTimeMinutes)
}

func (tg *TelegramGateway) resources() string {
	links := tg.Contacts.Resources(tg.Region)
	if len(links) == 0 {
		return "No regional support resources configured."
	}

	var b strings.Builder
	b.WriteString("Financial support resources:\n")
	for _, link := range links {
		fmt.Fprintf(&b, "• %s\n", link)
	}

	// A short excerpt of the first page helps users decide whether to visit.
	if tg.Fetcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if summary, err := tg.Fetcher.Summarize(ctx, links[0]); err == nil && summary != links[0] {
			fmt.Fprintf(&b, "\n%s\n", summary)
		}
	}
	return b.String()
}

func (tg *TelegramGateway) formatStep(w *walkthrough) string {
	steps := w.plan.ActionSteps
	if len(steps) == 0 {
		return "No action steps available."
	}
	if w.stepIndex >= len(steps) {
		advice := w.plan.FinalAdvice
		if advice == "" {
			advice = "Take it one step at a time."
		}
		return fmt.Sprintf("🎉 All steps complete! Bahut acche!\n\n💡 %s", advice)
	}
	current := steps[w.stepIndex]

	priorityEmoji := "🟡"
	if current.Priority == "high" {
		priorityEmoji = "🔴"
	}

	return fmt.Sprintf(
		"📋 Step %d of %d\nTake it slowly. Focus on just this one step.\n\n%s\n%s Priority: %s | Estimated: %d min\n\nReply /next when done, /stuck if you need a simpler alternative.",
		w.stepIndex+1, len(steps), current.Step, priorityEmoji, current.Priority, current.EstimatedTimeMinutes,
	)
}

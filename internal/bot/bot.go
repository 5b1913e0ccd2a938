// internal/bot/bot.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"expense-ledger/internal/balance"
	"expense-ledger/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const recentExpenses = 10

const helpText = "Expense ledger\n\n" +
	"Commands:\n" +
	"/balance - net balance of every user\n" +
	"/expenses - the 10 most recent expenses\n" +
	"/expenses <user id> - expenses paid by one user\n" +
	"/users - registered users"

// Ledger is the read side of the ledger the bot reports on.
type Ledger interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListExpenses(ctx context.Context) ([]domain.Expense, error)
	ListUserExpenses(ctx context.Context, userID int64) ([]domain.Expense, error)
	BalanceSheet(ctx context.Context) (balance.Sheet, error)
}

// Sender is the part of *tgbotapi.BotAPI used to answer.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	ledger  Ledger
	printer *message.Printer
}

func New(ledger Ledger) *Bot {
	return &Bot{
		ledger:  ledger,
		printer: message.NewPrinter(language.English),
	}
}

// Reply computes the answer to one incoming message.
func (b *Bot) Reply(ctx context.Context, text string) string {
	cmd, args := command(normalizeInput(text))

	var (
		reply string
		err   error
	)
	switch cmd {
	case "/start", "/help":
		reply = helpText
	case "/balance":
		reply, err = b.balance(ctx)
	case "/expenses":
		reply, err = b.expenses(ctx, args)
	case "/users":
		reply, err = b.users(ctx)
	default:
		reply = "Unknown command. Send /help"
	}

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return "Error: " + err.Error()
		}
		slog.ErrorContext(ctx, "Bot command failed", "command", cmd, "error", err)
		return "Something went wrong, try again later"
	}
	return reply
}

// HandleUpdate answers a message update. Other update kinds are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, s Sender, update tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	msg := update.Message
	slog.DebugContext(ctx, "Bot message received", "chat_id", msg.Chat.ID, "text", msg.Text)

	out := tgbotapi.NewMessage(msg.Chat.ID, b.Reply(ctx, msg.Text))
	if _, err := s.Send(out); err != nil {
		return fmt.Errorf("send reply to chat %d: %w", msg.Chat.ID, err)
	}
	return nil
}

// Run consumes updates until ctx is cancelled or the channel closes.
func (b *Bot) Run(ctx context.Context, s Sender, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := b.HandleUpdate(ctx, s, update); err != nil {
				slog.WarnContext(ctx, "Bot reply failed", "error", err)
			}
		}
	}
}

func (b *Bot) balance(ctx context.Context) (string, error) {
	sheet, err := b.ledger.BalanceSheet(ctx)
	if err != nil {
		return "", err
	}
	rows := sheet.Rows()
	if len(rows) == 0 {
		return "No users yet", nil
	}

	lines := []string{"Balances:"}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s: %s", r.User, b.money(r.Balance)))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) expenses(ctx context.Context, args string) (string, error) {
	if args == "" {
		expenses, err := b.ledger.ListExpenses(ctx)
		if err != nil {
			return "", err
		}
		if len(expenses) == 0 {
			return "No expenses yet", nil
		}
		if len(expenses) > recentExpenses {
			expenses = expenses[len(expenses)-recentExpenses:]
		}

		lines := []string{"Recent expenses:"}
		for _, e := range expenses {
			lines = append(lines, fmt.Sprintf("#%d %s: %s paid by %s", e.ID, e.Description, b.money(e.Amount), e.PayerName))
		}
		return strings.Join(lines, "\n"), nil
	}

	userID, err := strconv.ParseInt(args, 10, 64)
	if err != nil || userID <= 0 {
		return "", fmt.Errorf("%w: user id must be a positive number", domain.ErrInvalidInput)
	}
	expenses, err := b.ledger.ListUserExpenses(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(expenses) == 0 {
		return fmt.Sprintf("User %d has not paid for anything", userID), nil
	}

	lines := []string{fmt.Sprintf("Expenses paid by user %d:", userID)}
	for _, e := range expenses {
		lines = append(lines, fmt.Sprintf("#%d %s: %s on %s", e.ID, e.Description, b.money(e.Amount), e.Date.Format("2006-01-02")))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) users(ctx context.Context) (string, error) {
	users, err := b.ledger.ListUsers(ctx)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "No users yet", nil
	}

	lines := []string{"Users:"}
	for _, u := range users {
		lines = append(lines, fmt.Sprintf("%d. %s <%s>", u.ID, u.Name, u.Email))
	}
	return strings.Join(lines, "\n"), nil
}

// money renders an amount with two decimals and thousands separators.
func (b *Bot) money(d decimal.Decimal) string {
	return b.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"promoterbot/pkg/logger"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	otpPattern   = regexp.MustCompile(`^\d{6}$`)
)

func (b *Bot) handlePhoneInput(c tele.Context, session *UserSession) error {
	phone := strings.TrimSpace(c.Text())
	if !phonePattern.MatchString(phone) {
		return c.Send(messages["phone_invalid"])
	}

	ctx := context.Background()
	if _, err := b.API.SendOTP(ctx, c.Sender().ID, phone); err != nil {
		b.Log.Error("send otp failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
		return c.Send(err.Error())
	}

	session.Phone = phone
	session.State = StateOTP
	session.OTPSentAt = time.Now()

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("🔁 Resend OTP", "resend_otp")))
	return c.Send(fmt.Sprintf(messages["otp_prompt"], phone), markup)
}

func (b *Bot) handleOTPInput(c tele.Context, session *UserSession) error {
	otp := strings.TrimSpace(c.Text())
	if !otpPattern.MatchString(otp) {
		return c.Send(messages["otp_invalid"])
	}

	ctx := context.Background()
	env, err := b.API.VerifyOTP(ctx, c.Sender().ID, session.Phone, otp)
	if err != nil {
		b.Log.Error("verify otp failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
		return c.Send(err.Error())
	}

	auth, err := b.Svc.Session().Login(ctx, c.Sender().ID, env.Token, env.Promoter)
	if err != nil {
		b.Log.Error("login failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
		return c.Send(messages["something_wrong"])
	}

	c.Send(messages["login_ok"])
	return b.startLocationFlow(c, auth)
}

// handleResendOTP enforces the resend cooldown from the last successful send.
func (b *Bot) handleResendOTP(c tele.Context, session *UserSession) error {
	if session.State != StateOTP || session.Phone == "" {
		return c.Respond()
	}

	cooldown := time.Duration(b.Cfg.OTPResendSeconds) * time.Second
	if wait := cooldown - time.Since(session.OTPSentAt); wait > 0 {
		return c.Respond(&tele.CallbackResponse{
			Text: fmt.Sprintf(messages["otp_wait"], int(wait.Seconds())+1),
		})
	}

	ctx := context.Background()
	if _, err := b.API.SendOTP(ctx, c.Sender().ID, session.Phone); err != nil {
		b.Log.Error("resend otp failed", logger.Error(err), logger.Int64("chat_id", c.Sender().ID))
		c.Respond()
		return c.Send(err.Error())
	}

	session.OTPSentAt = time.Now()
	c.Respond()
	return c.Send(messages["otp_sent"])
}

package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sbskhp/edu-portal-api/internal/models"
	"github.com/sbskhp/edu-portal-api/pkg/config"
)

// MailService sends applicant notifications over SMTP. Sending is
// best-effort everywhere: a mail failure must never fail the application
// flow that triggered it, so callers ignore the returned error after
// logging happens here.
type MailService struct {
	cfg    config.MailConfig
	logger *zap.Logger
	send   func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailService constructs the mail service.
func NewMailService(cfg config.MailConfig, logger *zap.Logger) *MailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	s := &MailService{cfg: cfg, logger: logger}
	s.send = s.sendWithDeadline
	return s
}

// sendWithDeadline mirrors smtp.SendMail but bounds the whole SMTP
// session with the configured timeout. smtp.SendMail has no deadline,
// so a stalled server would hang the request that triggered the mail.
func (s *MailService) sendWithDeadline(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", addr, s.cfg.Timeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(s.cfg.Timeout)); err != nil {
		return err
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

type statusMailData struct {
	Name   string
	Course string
	Reason string
}

var statusSubjects = map[models.ApplicationStatus]string{
	models.ApplicationStatusPending:   "[SBS A&T] 교육 신청이 정상적으로 접수되었습니다 - %s",
	models.ApplicationStatusApproved:  "[SBS A&T] 축하합니다! 교육 신청이 승인되었습니다 - %s",
	models.ApplicationStatusRejected:  "[SBS A&T] 교육 신청 반려 안내 - %s",
	models.ApplicationStatusCancelled: "[SBS A&T] 교육 신청이 취소되었습니다 - %s",
}

var statusBodies = map[models.ApplicationStatus]*template.Template{
	models.ApplicationStatusPending: mailTemplate(`
<p>SBS A&T Hightech Platform 교육 신청이 정상적으로 접수되었습니다.</p>
<div {{boxStyle}}>
  <strong>신청 과정:</strong> {{.Course}}<br>
  <strong>현재 상태:</strong> 신청 대기 (담당자 확인 중)
</div>
<p>담당자가 기재해주신 정보를 바탕으로 확인 후, 2~3일 이내에 최종 승인 여부를 안내해 드릴 예정입니다.</p>`),
	models.ApplicationStatusApproved: mailTemplate(`
<p>과정 참여 신청이 최종 <strong>승인</strong>되었습니다.</p>
<div {{boxStyle}}>
  <strong>과정명:</strong> {{.Course}}<br>
  <strong>상태:</strong> 승인 완료
</div>
<p>교육 장소 및 세부 준비물에 대해서는 추후 별도의 안내 문자를 드릴 예정입니다. 교육 당일 늦지 않게 참석 부탁드립니다.</p>`),
	models.ApplicationStatusRejected: mailTemplate(`
<p>아쉽게도 해당 교육 과정의 신청이 <strong>반려</strong>되었습니다.</p>
<div {{boxStyle}}>
  <strong>과정명:</strong> {{.Course}}<br>
  <strong>반려 사유:</strong> {{if .Reason}}{{.Reason}}{{else}}정원 초과 또는 요건 미충족{{end}}
</div>
<p>관련하여 문의사항이 있으시면 고객 센터로 연락 주시기 바랍니다.</p>`),
	models.ApplicationStatusCancelled: mailTemplate(`
<p>신청하신 교육 과정이 정상적으로 <strong>취소</strong> 처리되었습니다.</p>
<div {{boxStyle}}>
  <strong>과정명:</strong> {{.Course}}<br>
  <strong>취소 사유:</strong> {{if .Reason}}{{.Reason}}{{else}}사용자 요청{{end}}
</div>
<p>다음에 더 좋은 기회로 만나 뵙기를 바랍니다.</p>`),
}

func mailTemplate(body string) *template.Template {
	const frame = `<div style='color: #4f46e5; font-size: 1.2rem; font-weight: bold; border-bottom: 2px solid #e5e7eb; padding-bottom: 10px; margin-bottom: 20px;'>안녕하세요, {{.Name}}님.</div>
%s
<div style="margin-top: 30px; font-size: 0.85rem; color: #6b7280; border-top: 1px solid #e5e7eb; padding-top: 10px;">
  본 메일은 발신 전용입니다. 문의는 웹사이트의 Contact 메뉴를 이용해 주세요.<br>
  © SBS A&T Hightech Platform. All rights reserved.
</div>`
	t := template.New("mail").Funcs(template.FuncMap{
		"boxStyle": func() template.HTMLAttr {
			return template.HTMLAttr(`style='background-color: #f9fafb; border: 1px solid #e5e7eb; padding: 20px; border-radius: 8px; line-height: 1.6;'`)
		},
	})
	return template.Must(t.Parse(fmt.Sprintf(frame, body)))
}

// SendStatusMail notifies an applicant that their application reached the
// given status.
func (s *MailService) SendStatusMail(app models.Application, status models.ApplicationStatus) {
	if !s.cfg.Enabled {
		return
	}
	subjectFmt, ok := statusSubjects[status]
	if !ok {
		return
	}
	tmpl := statusBodies[status]

	var body bytes.Buffer
	data := statusMailData{Name: app.Name, Course: app.Course, Reason: app.CancelReason}
	if err := tmpl.Execute(&body, data); err != nil {
		s.logger.Error("render status mail", zap.Error(err))
		return
	}

	subject := fmt.Sprintf(subjectFmt, app.Course)
	if err := s.deliver(app.Email, subject, body.String()); err != nil {
		s.logger.Error("send status mail failed",
			zap.String("to", app.Email),
			zap.String("status", string(status)),
			zap.Error(err))
		return
	}
	s.logger.Info("status mail sent", zap.String("to", app.Email), zap.String("status", string(status)))
}

func (s *MailService) deliver(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	fromName := s.cfg.FromName
	if fromName == "" {
		fromName = "SBS A&T 교육팀"
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", fromName), s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return s.send(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}

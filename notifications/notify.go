package notifications

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"github.com/APPLEMALL-KENYA/agents/models"
)

// Notify stores a notification row for the user and, when SMTP is configured,
// mails a copy in the background. Delivery is fire-and-forget: failures are
// logged and swallowed, a notification must never fail the operation that
// emitted it.
func Notify(db *gorm.DB, userID uint, title, message string, link *string) {
	n := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if err := db.Create(&n).Error; err != nil {
		log.Printf("[notifications] failed to store notification for user %d: %v", userID, err)
		return
	}

	if os.Getenv("SMTP_HOST") == "" {
		return
	}
	var user models.User
	if err := db.Select("email").First(&user, userID).Error; err != nil || user.Email == "" {
		return
	}
	go sendMail(user.Email, title, message)
}

// MarkRead flips the read flag. The row is otherwise immutable.
func MarkRead(db *gorm.DB, userID, notificationID uint) error {
	return db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error
}

func sendMail(to, subject, body string) {
	host := os.Getenv("SMTP_HOST")
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@applemall.co.ke"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS"))
	if err := d.DialAndSend(m); err != nil {
		log.Printf("[notifications] email to %s failed: %v", to, err)
	}
}

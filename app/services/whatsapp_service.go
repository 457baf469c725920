package services

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopshap/shopshap/app/configs"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// CodeSender delivers a verification code to a phone number. Production uses
// Twilio's WhatsApp API; dev mode skips delivery and surfaces the code.
type CodeSender interface {
	SendVerificationCode(phoneNumber, code string) error
	DevMode() bool
}

type TwilioWhatsAppService struct {
	client         *http.Client
	baseURL        string
	accountSID     string
	authToken      string
	whatsappNumber string
	devMode        bool
}

func NewTwilioWhatsAppService(env configs.ENV) *TwilioWhatsAppService {
	devMode := env.TwilioAccountSID == "" || env.TwilioAuthToken == "" || env.TwilioWhatsAppNumber == ""
	if devMode {
		log.Println("⚠️ Twilio credentials missing - WhatsApp sender running in development mode")
	}

	return &TwilioWhatsAppService{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:        twilioBaseURL,
		accountSID:     env.TwilioAccountSID,
		authToken:      env.TwilioAuthToken,
		whatsappNumber: env.TwilioWhatsAppNumber,
		devMode:        devMode || env.AppEnv != "production",
	}
}

func (s *TwilioWhatsAppService) DevMode() bool {
	return s.devMode
}

func (s *TwilioWhatsAppService) SendVerificationCode(phoneNumber, code string) error {
	if s.accountSID == "" || s.authToken == "" || s.whatsappNumber == "" {
		log.Println("TwilioWhatsAppService: credentials missing, skipping delivery")
		return nil
	}

	message := fmt.Sprintf("Votre code de vérification ShopShap : %s\n\nCe code expire dans 10 minutes.\n\nNe partagez jamais ce code avec personne.", code)

	formData := url.Values{}
	formData.Set("From", s.whatsappNumber)
	formData.Set("To", "whatsapp:"+phoneNumber)
	formData.Set("Body", message)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(formData.Encode()))
	if err != nil {
		log.Printf("TwilioWhatsAppService: Error creating message request: %v", err)
		return fmt.Errorf("failed to create message request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("TwilioWhatsAppService: Error performing message request: %v", err)
		return fmt.Errorf("failed to perform message request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("TwilioWhatsAppService: Error reading message response body: %v", err)
		return fmt.Errorf("failed to read message response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("TwilioWhatsAppService: Twilio returned non-OK status: %d, Body: %s", resp.StatusCode, string(body))
		return fmt.Errorf("twilio error: status %d", resp.StatusCode)
	}

	log.Printf("✅ WhatsApp verification message sent to %s", phoneNumber)
	return nil
}

package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"petit-marche/internal/entity"
	"petit-marche/internal/mailer"
	"petit-marche/internal/paydunya"
	"petit-marche/internal/repo/persistent"
	"petit-marche/pkg/logger"
	"petit-marche/pkg/queue"
)

type InvoiceRequest struct {
	UserID      string
	Type        entity.PurchaseType
	ListingID   string
	BoostOption string
	Credits     int
	PackName    string
}

type InvoiceResult struct {
	CheckoutURL string `json:"checkout_url"`
	Token       string `json:"token"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

type CallbackResult struct {
	Processed bool   `json:"processed"`
	Token     string `json:"token"`
	Status    string `json:"status"`
}

type CreditRequestInput struct {
	Pack               string
	PhoneNumber        string
	Email              string
	FullName           string
	ScreenshotBase64   string
	ScreenshotFilename string
}

type ManualPaymentInput struct {
	Phone              string
	Account            string
	Pack               string
	UserEmail          string
	ScreenshotBase64   string
	ScreenshotFilename string
}

type PaymentUseCase interface {
	CreateInvoice(ctx context.Context, req InvoiceRequest) (*InvoiceResult, error)
	HandleCallback(ctx context.Context, body []byte, contentType string) (*CallbackResult, error)
	ListTransactions(userID string, limit, offset int) ([]*entity.Transaction, error)
	SendCreditRequest(ctx context.Context, input CreditRequestInput) (*mailer.CreditRequestReceipt, error)
	SendManualPayment(ctx context.Context, input ManualPaymentInput) (string, error)
}

type paymentUseCase struct {
	transactionRepo persistent.TransactionRepository
	creditRepo      persistent.CreditRepository
	userRepo        persistent.UserRepository
	listingUC       ListingUseCase
	gateway         *paydunya.Client
	mailer          *mailer.Mailer
	queueClient     *queue.Client
	publicBaseURL   string
	logger          *logger.Logger
}

func NewPaymentUseCase(
	transactionRepo persistent.TransactionRepository,
	creditRepo persistent.CreditRepository,
	userRepo persistent.UserRepository,
	listingUC ListingUseCase,
	gateway *paydunya.Client,
	mail *mailer.Mailer,
	queueClient *queue.Client,
	publicBaseURL string,
	logger *logger.Logger,
) PaymentUseCase {
	return &paymentUseCase{
		transactionRepo: transactionRepo,
		creditRepo:      creditRepo,
		userRepo:        userRepo,
		listingUC:       listingUC,
		gateway:         gateway,
		mailer:          mail,
		queueClient:     queueClient,
		publicBaseURL:   strings.TrimRight(publicBaseURL, "/"),
		logger:          logger,
	}
}

// CreateInvoice registers a hosted checkout session with PayDunya and records
// a pending transaction keyed by the session token. If the local insert fails
// after the gateway accepted the invoice, the checkout URL is still returned:
// the client already owes nothing until payment, and the callback handler
// logs unmatched tokens.
func (uc *paymentUseCase) CreateInvoice(ctx context.Context, req InvoiceRequest) (*InvoiceResult, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	switch req.Type {
	case entity.PurchaseAnnonce, entity.PurchaseBoost:
		if req.ListingID == "" {
			return nil, fmt.Errorf("%w: annonceId is required for %s purchases", ErrValidation, req.Type)
		}
	case entity.PurchasePack:
		if req.Credits <= 0 {
			return nil, fmt.Errorf("%w: credits must be positive for pack purchases", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown purchase type %q", ErrValidation, req.Type)
	}

	user, err := uc.userRepo.GetByID(req.UserID)
	if err != nil {
		return nil, ErrNotFound
	}

	amount := PurchaseAmount(req.Type, req.BoostOption, req.Credits)
	description := invoiceDescription(req)

	invoice := paydunya.Invoice{
		Invoice: paydunya.InvoiceDetails{
			TotalAmount: amount,
			Description: description,
		},
		Store:    paydunya.Store{Name: "Petit Marché"},
		Customer: paydunya.Customer{Name: user.FullName, Email: user.Email, Phone: user.Phone},
		Items: map[string]paydunya.Item{
			"item_0": {
				Name:       description,
				Quantity:   1,
				UnitPrice:  strconv.Itoa(amount),
				TotalPrice: strconv.Itoa(amount),
			},
		},
		Actions: paydunya.Actions{
			ReturnURL:   uc.publicBaseURL + "/payment/success",
			CancelURL:   uc.publicBaseURL + "/payment/cancel",
			CallbackURL: uc.publicBaseURL + "/api/v1/payments/callback",
		},
		CustomData: map[string]interface{}{
			"user_id":      req.UserID,
			"type":         string(req.Type),
			"listing_id":   req.ListingID,
			"boost_option": req.BoostOption,
			"credits":      req.Credits,
			"pack_name":    req.PackName,
			"app_name":     "petit-marche",
		},
	}

	session, err := uc.gateway.CreateInvoice(ctx, invoice)
	if err != nil {
		if err == paydunya.ErrMissingCredentials {
			return nil, fmt.Errorf("%w: payment gateway keys missing", ErrConfig)
		}
		uc.logger.Error("PayDunya invoice creation failed: %v (user_id=%s type=%s)", err, req.UserID, req.Type)
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	transaction := &entity.Transaction{
		UserID:        req.UserID,
		Amount:        amount,
		Type:          req.Type,
		Status:        entity.TransactionPending,
		PayDunyaToken: session.Token,
	}
	if req.ListingID != "" {
		listingID := req.ListingID
		transaction.ListingID = &listingID
	}

	if err := uc.transactionRepo.Create(transaction); err != nil {
		// The checkout session already exists upstream. Give the client its
		// URL anyway and rely on callback logging to surface the orphan.
		uc.logger.Error("Failed to record pending transaction for token %s: %v", session.Token, err)
	}

	return &InvoiceResult{
		CheckoutURL: session.CheckoutURL,
		Token:       session.Token,
		Amount:      amount,
		Description: description,
	}, nil
}

// HandleCallback reconciles an IPN delivery against the pending transaction
// it references. Settlement is a single conditional update, so redelivered or
// duplicated callbacks find no pending row and produce no side effects.
func (uc *paymentUseCase) HandleCallback(ctx context.Context, body []byte, contentType string) (*CallbackResult, error) {
	event, err := paydunya.ParseCallback(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if event.Token == "" {
		uc.logger.Warn("Callback without token (status=%s), ignoring", event.Status)
		return &CallbackResult{Processed: false, Status: event.Status}, nil
	}

	if !event.IsSuccess() {
		// Only cancelled/failed terminate the transaction. An interim status
		// (e.g. an early "pending" notification) must not consume the pending
		// row, or the final completed delivery would find nothing to settle.
		if !event.IsFailure() {
			uc.logger.Info("Callback for token %s with interim status %q, nothing to settle", event.Token, event.Status)
			return &CallbackResult{Processed: false, Token: event.Token, Status: event.Status}, nil
		}
		settled, err := uc.transactionRepo.SettleByToken(event.Token, entity.TransactionFailed)
		if err != nil {
			uc.logger.Error("Failed to mark transaction failed for token %s: %v", event.Token, err)
			return nil, fmt.Errorf("failed to settle transaction")
		}
		if !settled {
			uc.logger.Info("Callback for token %s ignored: no pending transaction", event.Token)
		}
		return &CallbackResult{Processed: settled, Token: event.Token, Status: event.Status}, nil
	}

	settled, err := uc.transactionRepo.SettleByToken(event.Token, entity.TransactionCompleted)
	if err != nil {
		uc.logger.Error("Failed to settle transaction for token %s: %v", event.Token, err)
		return nil, fmt.Errorf("failed to settle transaction")
	}
	if !settled {
		uc.logger.Info("Callback for token %s ignored: already settled or unknown", event.Token)
		return &CallbackResult{Processed: false, Token: event.Token, Status: event.Status}, nil
	}

	transaction, err := uc.transactionRepo.GetByToken(event.Token)
	if err != nil {
		uc.logger.Error("Settled transaction missing for token %s: %v", event.Token, err)
		return &CallbackResult{Processed: true, Token: event.Token, Status: event.Status}, nil
	}

	uc.applySideEffects(transaction, event)

	return &CallbackResult{Processed: true, Token: event.Token, Status: event.Status}, nil
}

// applySideEffects delivers what the settled payment bought. Failures here
// are logged, not bubbled: the transaction is already terminal and the
// gateway must not be told to retry.
func (uc *paymentUseCase) applySideEffects(transaction *entity.Transaction, event *paydunya.CallbackEvent) {
	switch transaction.Type {
	case entity.PurchaseAnnonce:
		if transaction.ListingID == nil {
			uc.logger.Error("Annonce transaction %s has no listing", transaction.ID)
			return
		}
		if err := uc.listingUC.ActivateAfterPayment(*transaction.ListingID, transaction.UserID); err != nil {
			uc.logger.Error("Failed to activate listing %s after payment: %v", *transaction.ListingID, err)
		}

	case entity.PurchaseBoost:
		if transaction.ListingID == nil {
			uc.logger.Error("Boost transaction %s has no listing", transaction.ID)
			return
		}
		option := event.CustomData.BoostOption
		if err := uc.listingUC.ApplyBoost(*transaction.ListingID, transaction.UserID, option); err != nil {
			uc.logger.Error("Failed to boost listing %s: %v", *transaction.ListingID, err)
		}

	case entity.PurchasePack:
		credits := event.CustomData.Credits
		if credits <= 0 {
			if pack, ok := entity.CreditPacks[event.CustomData.PackName]; ok {
				credits = pack.Credits
			}
		}
		if credits <= 0 {
			uc.logger.Error("Pack transaction %s settled with no credit count", transaction.ID)
			return
		}
		if err := uc.creditRepo.Add(transaction.UserID, credits); err != nil {
			uc.logger.Error("Failed to add %d credits to %s: %v", credits, transaction.UserID, err)
		}
	}

	if uc.queueClient != nil {
		go uc.publishPaymentNotification(transaction)
	}
}

func (uc *paymentUseCase) ListTransactions(userID string, limit, offset int) ([]*entity.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.transactionRepo.ListByUser(userID, limit, offset)
}

// SendCreditRequest relays a manual pack purchase with a payment screenshot
// to the operator inbox. A malformed screenshot is dropped with a warning
// rather than failing the whole request.
func (uc *paymentUseCase) SendCreditRequest(ctx context.Context, input CreditRequestInput) (*mailer.CreditRequestReceipt, error) {
	if input.Pack == "" {
		return nil, fmt.Errorf("%w: selectedPack is required", ErrValidation)
	}
	if input.PhoneNumber == "" {
		return nil, fmt.Errorf("%w: phoneNumber is required", ErrValidation)
	}
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if input.FullName == "" {
		return nil, fmt.Errorf("%w: fullName is required", ErrValidation)
	}
	if input.ScreenshotBase64 == "" {
		return nil, fmt.Errorf("%w: screenshotBase64 is required", ErrValidation)
	}
	if _, ok := entity.CreditPacks[input.Pack]; !ok {
		return nil, fmt.Errorf("%w: unknown pack %q", ErrValidation, input.Pack)
	}

	req := mailer.CreditRequest{
		Pack:        input.Pack,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		FullName:    input.FullName,
	}

	if attachment, err := mailer.ParseDataURI(input.ScreenshotBase64, input.ScreenshotFilename); err != nil {
		uc.logger.Warn("Dropping malformed screenshot for %s: %v", input.PhoneNumber, err)
	} else {
		req.Screenshot = attachment
	}

	receipt, err := uc.mailer.SendCreditRequest(ctx, req)
	if err != nil {
		if err == mailer.ErrMissingAPIKey {
			return nil, fmt.Errorf("%w: email service key missing", ErrConfig)
		}
		uc.logger.Error("Failed to relay credit request for %s: %v", input.PhoneNumber, err)
		return nil, fmt.Errorf("failed to send credit request")
	}
	return receipt, nil
}

// SendManualPayment forwards a proof-of-payment screenshot to the operator.
// A screenshot that fails to decode is dropped with a warning so the operator
// still gets the payer metadata.
func (uc *paymentUseCase) SendManualPayment(ctx context.Context, input ManualPaymentInput) (string, error) {
	if input.Phone == "" {
		return "", fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if input.Account == "" {
		return "", fmt.Errorf("%w: account is required", ErrValidation)
	}
	if input.Pack == "" {
		return "", fmt.Errorf("%w: pack is required", ErrValidation)
	}
	if input.ScreenshotBase64 == "" {
		return "", fmt.Errorf("%w: screenshotBase64 is required", ErrValidation)
	}

	payment := mailer.ManualPayment{
		Phone:     input.Phone,
		Account:   input.Account,
		Pack:      input.Pack,
		UserEmail: input.UserEmail,
	}
	if attachment, err := mailer.ParseDataURI(input.ScreenshotBase64, input.ScreenshotFilename); err != nil {
		uc.logger.Warn("Dropping malformed screenshot for %s: %v", input.Phone, err)
	} else {
		payment.Screenshot = attachment
	}

	emailID, err := uc.mailer.SendManualPayment(ctx, payment)
	if err != nil {
		if err == mailer.ErrMissingAPIKey {
			return "", fmt.Errorf("%w: email service key missing", ErrConfig)
		}
		uc.logger.Error("Failed to relay manual payment for %s: %v", input.Phone, err)
		return "", fmt.Errorf("failed to send payment proof")
	}
	return emailID, nil
}

func (uc *paymentUseCase) publishPaymentNotification(transaction *entity.Transaction) {
	task := map[string]interface{}{
		"type":     "payment_completed",
		"user_id":  transaction.UserID,
		"purchase": string(transaction.Type),
		"amount":   transaction.Amount,
		"priority": 7,
	}
	if err := uc.queueClient.PublishNotificationTask(task); err != nil {
		uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish payment task: %v (user_id=%s)", err, transaction.UserID)
	}
}

func invoiceDescription(req InvoiceRequest) string {
	switch req.Type {
	case entity.PurchaseBoost:
		return fmt.Sprintf("Boost d'annonce (%s)", boostLabel(req.BoostOption))
	case entity.PurchasePack:
		if req.PackName != "" {
			return fmt.Sprintf("Pack %s — %d crédits", req.PackName, req.Credits)
		}
		return fmt.Sprintf("Pack de %d crédits", req.Credits)
	default:
		return "Publication d'annonce"
	}
}

func boostLabel(option string) string {
	switch option {
	case "24h":
		return "24 heures"
	case "7d":
		return "7 jours"
	case "30d":
		return "30 jours"
	default:
		return option
	}
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TemirB/storefront-bot/internal/domain"
	"github.com/TemirB/storefront-bot/internal/payment"
)

//go:generate mockgen -source internal/application/handler/handler.go -destination=internal/application/handler/handler_mock_test.go -package=handler

var ErrUnknownCommand = errors.New("unknown command")

type Catalog interface {
	EnsureUser(ctx context.Context, u domain.User) error
	Categories(ctx context.Context) ([]domain.Category, error)
	ProductsInCategoryNumber(ctx context.Context, number int64) ([]domain.Product, error)
	Product(ctx context.Context, number int64) (*domain.Product, error)
	PaymentMethods(ctx context.Context, onlyActive bool) ([]domain.PaymentMethod, error)
	AddKeys(ctx context.Context, actor, number int64, keys []string) (int, error)
	PromoteAdmin(ctx context.Context, actor, userID int64) error
	CreditWallet(ctx context.Context, actor, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
	TogglePromotion(ctx context.Context, actor int64, name string, active bool) error
	SetMaintenance(ctx context.Context, actor int64, on bool) error

	CreateProduct(ctx context.Context, actor int64, p domain.Product) (int64, error)
	SetProductField(ctx context.Context, actor, number int64, field domain.ProductField, value any) error
	DeleteProduct(ctx context.Context, actor, number int64) error
	CreateCategory(ctx context.Context, actor int64, name string) (int64, error)
	RenameCategory(ctx context.Context, actor, number int64, name string) (int, error)
	DeleteCategory(ctx context.Context, actor, number int64) error
	CreatePaymentMethod(ctx context.Context, actor int64, name string) error
	SetPaymentCredentials(ctx context.Context, actor int64, name, token, secret string) error
	SetPaymentActive(ctx context.Context, actor int64, name string, active bool) error
	DeletePaymentMethod(ctx context.Context, actor int64, name string) error
	SetPromotion(ctx context.Context, actor int64, name string, limit int) error
}

type Engine interface {
	CreateOrder(ctx context.Context, buyer domain.User, productNumber int64) (*domain.Order, error)
	SelectPayment(ctx context.Context, buyerID, number int64, method string) (payment.Quote, error)
	CheckPayment(ctx context.Context, buyerID, number int64) (*domain.Order, error)
	ConfirmManual(ctx context.Context, adminID, number int64) (*domain.Order, error)
	Fulfill(ctx context.Context, adminID, number int64) (*domain.Order, error)
	DeleteOrder(ctx context.Context, adminID, number int64) error
	Purchases(ctx context.Context, userID int64) ([]domain.Order, error)
	Comment(ctx context.Context, buyerID, number int64, text string) error
}

type Replier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

type Options struct {
	Currency    string
	Promotion   string
	PollTimeout time.Duration
}

// Handler turns one chat update into catalog and engine calls. Errors are
// answered with domain.UserMessage; details only go to the log.
type Handler struct {
	catalog Catalog
	engine  Engine
	replier Replier
	opts    Options
	logger  *zap.Logger
}

func NewHandler(catalog Catalog, engine Engine, replier Replier, opts Options, logger *zap.Logger) *Handler {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 10 * time.Second
	}
	return &Handler{
		catalog: catalog,
		engine:  engine,
		replier: replier,
		opts:    opts,
		logger:  logger,
	}
}

type request struct {
	chatID int64
	user   domain.User
	cmd    string
	args   []string
	raw    string
}

// Handle processes a message or a callback query. Callback data carries the
// same command text a user could type.
func (h *Handler) Handle(ctx context.Context, update tgbotapi.Update) error {
	req, ok := parse(update)
	if !ok {
		return nil
	}

	text, err := h.dispatch(ctx, req)
	if err != nil {
		lvl := h.logger.Info
		if !isExpected(err) {
			lvl = h.logger.Error
		}
		lvl("Command failed",
			zap.Int("update_id", update.UpdateID),
			zap.Int64("user_id", req.user.ID),
			zap.String("command", req.cmd),
			zap.Error(err),
		)
		text = domain.UserMessage(err)
		if errors.Is(err, ErrUnknownCommand) {
			text = helpText
		}
	}
	if text == "" {
		return nil
	}
	return h.replier.Send(ctx, req.chatID, text)
}

func parse(update tgbotapi.Update) (request, bool) {
	var (
		chatID int64
		from   *tgbotapi.User
		text   string
	)
	switch {
	case update.Message != nil:
		chatID = update.Message.Chat.ID
		from = update.Message.From
		text = update.Message.Text
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		chatID = update.CallbackQuery.Message.Chat.ID
		from = update.CallbackQuery.From
		text = update.CallbackQuery.Data
	default:
		return request{}, false
	}
	if from == nil || strings.TrimSpace(text) == "" {
		return request{}, false
	}

	name := from.UserName
	if name == "" {
		name = strings.TrimSpace(from.FirstName + " " + from.LastName)
	}
	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	return request{
		chatID: chatID,
		user:   domain.User{ID: from.ID, Name: name},
		cmd:    cmd,
		args:   fields[1:],
		raw:    strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), fields[0])),
	}, true
}

func (h *Handler) dispatch(ctx context.Context, req request) (string, error) {
	switch req.cmd {
	case "/start":
		if err := h.catalog.EnsureUser(ctx, req.user); err != nil {
			return "", err
		}
		return "Welcome! " + helpText, nil
	case "/help":
		return helpText, nil
	case "/categories":
		return h.categories(ctx)
	case "/category":
		return h.category(ctx, req)
	case "/product":
		return h.product(ctx, req)
	case "/methods":
		return h.methods(ctx)
	case "/buy":
		return h.buy(ctx, req)
	case "/pay":
		return h.pay(ctx, req)
	case "/check":
		return h.check(ctx, req)
	case "/orders":
		return h.orders(ctx, req)
	case "/comment":
		return h.comment(ctx, req)

	case "/confirm":
		return h.adminOrder(ctx, req, h.engine.ConfirmManual, "confirmed")
	case "/fulfill":
		return h.adminOrder(ctx, req, h.engine.Fulfill, "fulfilled")
	case "/deleteorder":
		n, err := intArg(req.args, 0)
		if err != nil {
			return "", err
		}
		if err := h.engine.DeleteOrder(ctx, req.user.ID, n); err != nil {
			return "", err
		}
		return fmt.Sprintf("Order #%d deleted.", n), nil
	case "/addkeys":
		return h.addKeys(ctx, req)
	case "/promote":
		n, err := intArg(req.args, 0)
		if err != nil {
			return "", err
		}
		if err := h.catalog.PromoteAdmin(ctx, req.user.ID, n); err != nil {
			return "", err
		}
		return fmt.Sprintf("User %d is now an admin.", n), nil
	case "/credit":
		return h.credit(ctx, req)
	case "/maintenance":
		on, err := switchArg(req.args)
		if err != nil {
			return "", err
		}
		if err := h.catalog.SetMaintenance(ctx, req.user.ID, on); err != nil {
			return "", err
		}
		return "Maintenance mode " + onOff(on) + ".", nil
	case "/promotion":
		on, err := switchArg(req.args)
		if err != nil {
			return "", err
		}
		if err := h.catalog.TogglePromotion(ctx, req.user.ID, h.opts.Promotion, on); err != nil {
			return "", err
		}
		return "Promotion " + onOff(on) + ".", nil
	case "/setpromotion":
		limit, err := intArg(req.args, 0)
		if err != nil {
			return "", err
		}
		if err := h.catalog.SetPromotion(ctx, req.user.ID, h.opts.Promotion, int(limit)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Promotion started for the next %d sale(s).", limit), nil
	case "/adminhelp":
		return adminHelpText, nil
	}
	if text, ok, err := h.adminCatalog(ctx, req); ok {
		return text, err
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCommand, req.cmd)
}

func (h *Handler) categories(ctx context.Context) (string, error) {
	cats, err := h.catalog.Categories(ctx)
	if err != nil {
		return "", err
	}
	if len(cats) == 0 {
		return "No categories yet.", nil
	}
	var b strings.Builder
	b.WriteString("Categories:")
	for _, c := range cats {
		fmt.Fprintf(&b, "\n#%d %s", c.Number, c.Name)
	}
	return b.String(), nil
}

func (h *Handler) category(ctx context.Context, req request) (string, error) {
	n, err := intArg(req.args, 0)
	if err != nil {
		return "", err
	}
	products, err := h.catalog.ProductsInCategoryNumber(ctx, n)
	if err != nil {
		return "", err
	}
	if len(products) == 0 {
		return "This category is empty.", nil
	}
	var b strings.Builder
	for i, p := range products {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "#%d %s - %s %s", p.Number, p.Name, p.Price.StringFixed(2), h.opts.Currency)
		if p.Quantity <= 0 {
			b.WriteString(" (sold out)")
		}
	}
	return b.String(), nil
}

func (h *Handler) product(ctx context.Context, req request) (string, error) {
	n, err := intArg(req.args, 0)
	if err != nil {
		return "", err
	}
	p, err := h.catalog.Product(ctx, n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n%s\nPrice: %s %s\nIn stock: %d\nBuy with /buy %d",
		p.Name, p.Description, p.Price.StringFixed(2), h.opts.Currency, p.Quantity, p.Number), nil
}

func (h *Handler) methods(ctx context.Context) (string, error) {
	methods, err := h.catalog.PaymentMethods(ctx, true)
	if err != nil {
		return "", err
	}
	if len(methods) == 0 {
		return "No payment methods are available right now.", nil
	}
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.Name)
	}
	return "Payment methods: " + strings.Join(names, ", "), nil
}

func (h *Handler) buy(ctx context.Context, req request) (string, error) {
	n, err := intArg(req.args, 0)
	if err != nil {
		return "", err
	}
	order, err := h.engine.CreateOrder(ctx, req.user, n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Order #%d created for %s (%s %s).\nChoose a payment method with /pay %d <method>",
		order.Number, order.ProductName, order.Price.StringFixed(2), h.opts.Currency, order.Number), nil
}

func (h *Handler) pay(ctx context.Context, req request) (string, error) {
	n, err := intArg(req.args, 0)
	if err != nil {
		return "", err
	}
	if len(req.args) < 2 {
		return "", fmt.Errorf("%w: payment method required", domain.ErrInvalidInput)
	}
	quote, err := h.engine.SelectPayment(ctx, req.user.ID, n, req.args[1])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Send %s %s to:\n%s\nReference: %s\nThen run /check %d",
		quote.Amount.String(), quote.Currency, quote.Address, quote.Reference, n), nil
}

func (h *Handler) check(ctx context.Context, req request) (string, error) {
	n, err := intArg(req.args, 0)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, h.opts.PollTimeout)
	defer cancel()
	order, err := h.engine.CheckPayment(ctx, req.user.ID, n)
	if err != nil {
		return "", err
	}
	// The engine already delivered the keys by notification.
	return fmt.Sprintf("Order #%d is %s.", order.Number, statusText(order.Status)), nil
}

func (h *Handler) orders(ctx context.Context, req request) (string, error) {
	orders, err := h.engine.Purchases(ctx, req.user.ID)
	if err != nil {
		return "", err
	}
	if len(orders) == 0 {
		return "You have no purchases yet.", nil
	}
	var b strings.Builder
	b.WriteString("Your purchases:")
	for _, o := range orders {
		fmt.Fprintf(&b, "\n#%d %s - %s", o.Number, o.ProductName, statusText(o.Status))
	}
	return b.String(), nil
}

func (h *Handler) comment(ctx context.Context, req request) (string, error) {
	n, err := intArg(req.args, 0)
	if err != nil {
		return "", err
	}
	if err := h.engine.Comment(ctx, req.user.ID, n, tail(req.raw, 1)); err != nil {
		return "", err
	}
	return "Thanks for your feedback!", nil
}

func (h *Handler) adminOrder(ctx context.Context, req request,
	fn func(ctx context.Context, adminID, number int64) (*domain.Order, error), verb string,
) (string, error) {
	n, err := intArg(req.args, 0)
	if err != nil {
		return "", err
	}
	order, err := fn(ctx, req.user.ID, n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Order #%d %s, now %s.", order.Number, verb, statusText(order.Status)), nil
}

func (h *Handler) addKeys(ctx context.Context, req request) (string, error) {
	n, err := intArg(req.args, 0)
	if err != nil {
		return "", err
	}
	if len(req.args) < 2 {
		return "", fmt.Errorf("%w: no keys given", domain.ErrInvalidInput)
	}
	added, err := h.catalog.AddKeys(ctx, req.user.ID, n, req.args[1:])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d key(s) added to product #%d.", added, n), nil
}

func (h *Handler) credit(ctx context.Context, req request) (string, error) {
	n, err := intArg(req.args, 0)
	if err != nil {
		return "", err
	}
	if len(req.args) < 2 {
		return "", fmt.Errorf("%w: amount required", domain.ErrInvalidInput)
	}
	amount, err := decimal.NewFromString(req.args[1])
	if err != nil {
		return "", fmt.Errorf("%w: amount %q", domain.ErrInvalidInput, req.args[1])
	}
	bal, err := h.catalog.CreditWallet(ctx, req.user.ID, n, amount)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Wallet of %d is now %s %s.", n, bal.StringFixed(2), h.opts.Currency), nil
}

// adminCatalog handles the catalog editing commands. ok is false for any
// other command.
func (h *Handler) adminCatalog(ctx context.Context, req request) (_ string, ok bool, _ error) {
	actor := req.user.ID
	switch req.cmd {
	case "/newproduct":
		if len(req.args) < 3 {
			return "", true, fmt.Errorf("%w: usage /newproduct PRICE QUANTITY NAME", domain.ErrInvalidInput)
		}
		price, err := decimal.NewFromString(req.args[0])
		if err != nil {
			return "", true, fmt.Errorf("%w: price %q", domain.ErrInvalidInput, req.args[0])
		}
		qty, err := strconv.Atoi(req.args[1])
		if err != nil {
			return "", true, fmt.Errorf("%w: quantity %q", domain.ErrInvalidInput, req.args[1])
		}
		n, err := h.catalog.CreateProduct(ctx, actor, domain.Product{
			Name:     tail(req.raw, 2),
			Price:    price,
			Quantity: qty,
		})
		if err != nil {
			return "", true, err
		}
		return fmt.Sprintf("Product #%d created in %s.", n, domain.DefaultCategory), true, nil

	case "/setfield":
		n, err := intArg(req.args, 0)
		if err != nil {
			return "", true, err
		}
		if len(req.args) < 2 {
			return "", true, fmt.Errorf("%w: field required", domain.ErrInvalidInput)
		}
		field := domain.ProductField(strings.ToLower(req.args[1]))
		var value any = tail(req.raw, 2)
		if field == domain.FieldQuantity {
			q, err := strconv.Atoi(tail(req.raw, 2))
			if err != nil {
				return "", true, fmt.Errorf("%w: quantity %q", domain.ErrInvalidInput, tail(req.raw, 2))
			}
			value = q
		}
		if err := h.catalog.SetProductField(ctx, actor, n, field, value); err != nil {
			return "", true, err
		}
		return fmt.Sprintf("Product #%d %s updated.", n, field), true, nil

	case "/delproduct":
		n, err := intArg(req.args, 0)
		if err != nil {
			return "", true, err
		}
		if err := h.catalog.DeleteProduct(ctx, actor, n); err != nil {
			return "", true, err
		}
		return fmt.Sprintf("Product #%d deleted.", n), true, nil

	case "/newcategory":
		n, err := h.catalog.CreateCategory(ctx, actor, req.raw)
		if err != nil {
			return "", true, err
		}
		return fmt.Sprintf("Category #%d created.", n), true, nil

	case "/renamecategory":
		n, err := intArg(req.args, 0)
		if err != nil {
			return "", true, err
		}
		moved, err := h.catalog.RenameCategory(ctx, actor, n, tail(req.raw, 1))
		if err != nil {
			return "", true, err
		}
		return fmt.Sprintf("Category #%d renamed, %d product(s) updated.", n, moved), true, nil

	case "/delcategory":
		n, err := intArg(req.args, 0)
		if err != nil {
			return "", true, err
		}
		if err := h.catalog.DeleteCategory(ctx, actor, n); err != nil {
			return "", true, err
		}
		return fmt.Sprintf("Category #%d deleted.", n), true, nil

	case "/newmethod":
		if len(req.args) != 1 {
			return "", true, fmt.Errorf("%w: usage /newmethod NAME", domain.ErrInvalidInput)
		}
		if err := h.catalog.CreatePaymentMethod(ctx, actor, req.args[0]); err != nil {
			return "", true, err
		}
		return fmt.Sprintf("Payment method %s created. Set it up with /setmethod.", req.args[0]), true, nil

	case "/setmethod":
		if len(req.args) < 2 || len(req.args) > 3 {
			return "", true, fmt.Errorf("%w: usage /setmethod NAME TOKEN [SECRET]", domain.ErrInvalidInput)
		}
		secret := ""
		if len(req.args) == 3 {
			secret = req.args[2]
		}
		if err := h.catalog.SetPaymentCredentials(ctx, actor, req.args[0], req.args[1], secret); err != nil {
			return "", true, err
		}
		return fmt.Sprintf("Payment method %s updated.", req.args[0]), true, nil

	case "/method":
		if len(req.args) != 2 {
			return "", true, fmt.Errorf("%w: usage /method NAME on|off", domain.ErrInvalidInput)
		}
		on, err := switchArg(req.args[1:])
		if err != nil {
			return "", true, err
		}
		if err := h.catalog.SetPaymentActive(ctx, actor, req.args[0], on); err != nil {
			return "", true, err
		}
		return fmt.Sprintf("Payment method %s %s.", req.args[0], onOff(on)), true, nil

	case "/delmethod":
		if len(req.args) != 1 {
			return "", true, fmt.Errorf("%w: usage /delmethod NAME", domain.ErrInvalidInput)
		}
		if err := h.catalog.DeletePaymentMethod(ctx, actor, req.args[0]); err != nil {
			return "", true, err
		}
		return fmt.Sprintf("Payment method %s deleted.", req.args[0]), true, nil
	}
	return "", false, nil
}

// tail returns the raw text after the first n arguments with inner spacing
// kept.
func tail(raw string, n int) string {
	s := strings.TrimSpace(raw)
	for i := 0; i < n && s != ""; i++ {
		j := strings.IndexFunc(s, unicode.IsSpace)
		if j < 0 {
			return ""
		}
		s = strings.TrimSpace(s[j:])
	}
	return s
}

func intArg(args []string, i int) (int64, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("%w: number required", domain.ErrInvalidInput)
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(args[i], "#"), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, args[i])
	}
	return n, nil
}

func switchArg(args []string) (bool, error) {
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "on":
			return true, nil
		case "off":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: expected on or off", domain.ErrInvalidInput)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func statusText(s domain.OrderStatus) string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// isExpected reports errors caused by the user rather than the system.
func isExpected(err error) bool {
	for _, target := range []error{
		ErrUnknownCommand, domain.ErrInvalidInput, domain.ErrForbidden, domain.ErrNotFound,
		domain.ErrProductNotFound, domain.ErrSoldOut, domain.ErrPaymentPending, domain.ErrInvalidTransition,
		domain.ErrMethodInactive, domain.ErrMaintenance, domain.ErrPaymentFailed, domain.ErrOrderExpired,
		domain.ErrConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

const helpText = `Commands:
/categories - list categories
/category N - products in category N
/product N - product details
/buy N - order product N
/methods - payment methods
/pay ORDER METHOD - pay for an order
/check ORDER - check payment
/orders - your purchases
/comment ORDER TEXT - leave feedback`

const adminHelpText = `Admin commands:
/newproduct PRICE QUANTITY NAME - add a product
/setfield N FIELD VALUE - edit name, description, price, image_ref, download_ref, keys_ref, quantity or category
/delproduct N - remove a product
/addkeys N KEY... - add license keys
/newcategory NAME, /renamecategory N NAME, /delcategory N
/newmethod NAME, /setmethod NAME TOKEN [SECRET], /method NAME on|off, /delmethod NAME
/confirm ORDER, /fulfill ORDER, /deleteorder ORDER
/promote USER, /credit USER AMOUNT
/setpromotion LIMIT, /promotion on|off, /maintenance on|off`

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uma-arai/capachica-client/internal/api"
	"github.com/uma-arai/capachica-client/internal/common/utils"
	"github.com/uma-arai/capachica-client/internal/model"
	"github.com/uma-arai/capachica-client/internal/service/controller"
	"github.com/uma-arai/capachica-client/internal/service/session"
)

type app struct {
	client *api.Client
	ctrl   *controller.Controllers
	store  *session.Store
	out    io.Writer
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"login":           cmdLogin,
	"register":        cmdRegister,
	"logout":          cmdLogout,
	"session":         cmdSession,
	"me":              cmdMe,
	"list":            cmdList,
	"get":             cmdGet,
	"create":          cmdCreate,
	"update":          cmdUpdate,
	"delete":          cmdDelete,
	"reserve":         cmdReserve,
	"pay":             cmdPay,
	"confirm-payment": cmdReview(model.ReviewActionConfirm),
	"reject-payment":  cmdReview(model.ReviewActionReject),
	"summary":         cmdSummary,
	"gallery-upload":  cmdGalleryUpload,
	"home-update":     cmdHomeUpdate,
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("command is required")
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd(ctx, a, args[1:])
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// errEmptyResponse は成功ステータスだがボディが空または変換できなかった場合のエラーです
var errEmptyResponse = errors.New("respuesta vacía del servidor")

// resultError は値を得られなかった結果を画面用のエラーにします
// 成功ステータスでボディが空の場合は emptyMsg を使います
func resultError[T any](res api.Result[T], emptyMsg string) error {
	if res.OK() {
		if emptyMsg == "" {
			return errEmptyResponse
		}
		return errors.New(emptyMsg)
	}
	return errors.New(res.Message())
}

func notFound(name string, id int) string {
	return fmt.Sprintf("%s %d no encontrado", name, id)
}

// printResult は成功時の値を出力し、失敗時は画面用のメッセージをエラーにします
// ボディを使わないエンドポイント(api.Empty)のみ、空の成功を "OK" と表示します
func printResult[T any](a *app, res api.Result[T], emptyMsg string) error {
	if res.HasValue() {
		return a.print(res.Value)
	}
	if _, discard := any(res.Value).(api.Empty); discard && res.OK() {
		fmt.Fprintln(a.out, "OK")
		return nil
	}
	return resultError(res, emptyMsg)
}

type validator interface {
	Validate() error
}

// decodeRequest はJSONをリクエストに変換し、送信前に検証します
func decodeRequest[R validator](raw string) (R, error) {
	var req R
	if raw == "" {
		return req, errors.New("-json is required")
	}
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return req, fmt.Errorf("failed to parse request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

func parseID(args []string, pos int) (int, error) {
	if len(args) <= pos {
		return 0, errors.New("id is required")
	}
	id, err := strconv.Atoi(args[pos])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[pos])
	}
	return id, nil
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	req := model.LoginRequest{}
	fs.StringVar(&req.Email, "email", "", "メールアドレス")
	fs.StringVar(&req.Password, "password", "", "パスワード")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	res, err := a.ctrl.Auth.Login(ctx, req)
	if err != nil {
		return err
	}
	if !res.HasValue() {
		return resultError(res, "")
	}
	return a.print(a.store.Session(ctx))
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register")
	req := model.RegisterRequest{}
	fs.StringVar(&req.Name, "name", "", "氏名")
	fs.StringVar(&req.Email, "email", "", "メールアドレス")
	fs.StringVar(&req.Password, "password", "", "パスワード")
	fs.StringVar(&req.Role, "role", model.RoleClient, "ロール")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.PasswordConfirmation = req.Password
	if err := req.Validate(); err != nil {
		return err
	}

	res, err := a.ctrl.Auth.Register(ctx, req)
	if err != nil {
		return err
	}
	if !res.HasValue() {
		return resultError(res, "")
	}
	return a.print(a.store.Session(ctx))
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	ok, err := a.ctrl.Auth.Logout(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Sesión local eliminada (el servidor no confirmó el cierre)")
		return nil
	}
	fmt.Fprintln(a.out, "Sesión cerrada")
	return nil
}

func cmdSession(ctx context.Context, a *app, _ []string) error {
	installationID, err := a.store.InstallationID(ctx)
	if err != nil {
		return err
	}

	s := a.store.Session(ctx)
	token, authenticated := a.ctrl.Auth.Token(ctx)
	out := struct {
		model.Session
		Authenticated  bool   `json:"authenticated"`
		Token          string `json:"token,omitempty"`
		ExpiresAt      string `json:"expires_at,omitempty"`
		BaseURL        string `json:"base_url"`
		InstallationID string `json:"installation_id"`
	}{
		Session:        s,
		Authenticated:  authenticated,
		Token:          utils.MaskToken(token),
		BaseURL:        a.client.BaseURL(),
		InstallationID: installationID,
	}

	if authenticated {
		exp, ok, err := session.TokenExpiry(token)
		switch {
		case errors.Is(err, session.ErrOpaqueToken):
		case err != nil:
			return err
		case ok:
			out.ExpiresAt = exp.Format(time.RFC3339)
		}
	}
	return a.print(out)
}

type profile struct {
	model.User
	RegisteredSince string `json:"registered_since"`
}

func cmdMe(ctx context.Context, a *app, _ []string) error {
	return printResult(a, api.Map(a.ctrl.Auth.Profile(ctx), func(u model.User) profile {
		return profile{User: u, RegisteredSince: u.RegisteredSince()}
	}), "")
}

// resource は list/get/create/update/delete の対象です
// 対応しない操作は nil のままにします
type resource struct {
	list   func(ctx context.Context, a *app, status string) error
	get    func(ctx context.Context, a *app, id int) error
	create func(ctx context.Context, a *app, raw string) error
	update func(ctx context.Context, a *app, id int, raw string) error
	del    func(ctx context.Context, a *app, id int) error
}

func crud[T any, R validator](name string, pick func(*controller.Controllers) *controller.ResourceController[T, R]) resource {
	return resource{
		list: func(ctx context.Context, a *app, _ string) error {
			return printResult(a, pick(a.ctrl).All(ctx), "")
		},
		get: func(ctx context.Context, a *app, id int) error {
			return printResult(a, pick(a.ctrl).Get(ctx, id), notFound(name, id))
		},
		create: func(ctx context.Context, a *app, raw string) error {
			req, err := decodeRequest[R](raw)
			if err != nil {
				return err
			}
			return printResult(a, pick(a.ctrl).Create(ctx, req), "")
		},
		update: func(ctx context.Context, a *app, id int, raw string) error {
			req, err := decodeRequest[R](raw)
			if err != nil {
				return err
			}
			return printResult(a, pick(a.ctrl).Update(ctx, id, req), notFound(name, id))
		},
		del: func(ctx context.Context, a *app, id int) error {
			return printResult(a, pick(a.ctrl).Delete(ctx, id), "")
		},
	}
}

var resources = map[string]resource{
	"products": crud("products", func(c *controller.Controllers) *controller.ResourceController[model.Product, model.ProductRequest] {
		return c.Products.ResourceController
	}),
	"categories": crud("categories", func(c *controller.Controllers) *controller.ResourceController[model.Category, model.CategoryRequest] {
		return c.Categories
	}),
	"places": crud("places", func(c *controller.Controllers) *controller.ResourceController[model.Place, model.PlaceRequest] {
		return c.Places
	}),
	"tours": crud("tours", func(c *controller.Controllers) *controller.ResourceController[model.Tour, model.TourRequest] {
		return c.Tours
	}),
	"associations": crud("associations", func(c *controller.Controllers) *controller.ResourceController[model.Association, model.AssociationRequest] {
		return c.Associations
	}),
	"entrepreneurs": {
		list: func(ctx context.Context, a *app, _ string) error {
			return printResult(a, a.ctrl.Entrepreneurs.All(ctx), "")
		},
		get: func(ctx context.Context, a *app, id int) error {
			return printResult(a, a.ctrl.Entrepreneurs.Get(ctx, id), notFound("entrepreneurs", id))
		},
		create: func(ctx context.Context, a *app, raw string) error {
			req, err := decodeRequest[model.EntrepreneurRequest](raw)
			if err != nil {
				return err
			}
			return printResult(a, a.ctrl.Entrepreneurs.Create(ctx, req), "")
		},
		update: func(ctx context.Context, a *app, id int, raw string) error {
			req, err := decodeRequest[model.EntrepreneurRequest](raw)
			if err != nil {
				return err
			}
			return printResult(a, a.ctrl.Entrepreneurs.Update(ctx, id, req), notFound("entrepreneurs", id))
		},
		del: func(ctx context.Context, a *app, id int) error {
			return printResult(a, a.ctrl.Entrepreneurs.Delete(ctx, id), "")
		},
	},
	"my-products": {list: func(ctx context.Context, a *app, _ string) error {
		return printResult(a, a.ctrl.Products.Mine(ctx), "")
	}},
	"product-categories": {list: func(ctx context.Context, a *app, _ string) error {
		return printResult(a, a.ctrl.Products.Categories(ctx), "")
	}},
	"reservations": {list: func(ctx context.Context, a *app, _ string) error {
		return printResult(a, a.ctrl.Reservations.All(ctx), "")
	}},
	"my-reservations": {list: func(ctx context.Context, a *app, _ string) error {
		return printResult(a, a.ctrl.Reservations.Mine(ctx), "")
	}},
	"payments": {list: func(ctx context.Context, a *app, status string) error {
		return printPayments(a, a.ctrl.Payments.All(ctx), status)
	}},
	"my-payments": {list: func(ctx context.Context, a *app, status string) error {
		return printPayments(a, a.ctrl.Payments.Mine(ctx), status)
	}},
	"gallery": {list: func(ctx context.Context, a *app, _ string) error {
		return printResult(a, a.ctrl.Gallery.Images(ctx), "")
	}},
	"home": {list: func(ctx context.Context, a *app, _ string) error {
		return printResult(a, a.ctrl.Home.Get(ctx), "")
	}},
}

func resourceNames() string {
	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func printPayments(a *app, res api.Result[[]model.Payment], status string) error {
	return printResult(a, api.Map(res, func(p []model.Payment) []model.Payment {
		return model.FilterPayments(p, status)
	}), "")
}

func lookupResource(args []string, op string, supported func(resource) bool) (resource, error) {
	if len(args) < 1 {
		return resource{}, errors.New("resource is required")
	}
	r, ok := resources[args[0]]
	if !ok {
		return resource{}, fmt.Errorf("unknown resource %q (%s)", args[0], resourceNames())
	}
	if !supported(r) {
		return resource{}, fmt.Errorf("%s does not support %s", args[0], op)
	}
	return r, nil
}

func cmdList(ctx context.Context, a *app, args []string) error {
	r, err := lookupResource(args, "list", func(r resource) bool { return r.list != nil })
	if err != nil {
		return err
	}
	fs := newFlagSet("list")
	status := fs.String("status", model.PaymentStatusAll, "支払いのステータスで絞り込む")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	return r.list(ctx, a, *status)
}

func cmdGet(ctx context.Context, a *app, args []string) error {
	r, err := lookupResource(args, "get", func(r resource) bool { return r.get != nil })
	if err != nil {
		return err
	}
	id, err := parseID(args, 1)
	if err != nil {
		return err
	}
	return r.get(ctx, a, id)
}

func cmdCreate(ctx context.Context, a *app, args []string) error {
	r, err := lookupResource(args, "create", func(r resource) bool { return r.create != nil })
	if err != nil {
		return err
	}
	fs := newFlagSet("create")
	raw := fs.String("json", "", "リクエストのJSON")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	return r.create(ctx, a, *raw)
}

func cmdUpdate(ctx context.Context, a *app, args []string) error {
	r, err := lookupResource(args, "update", func(r resource) bool { return r.update != nil })
	if err != nil {
		return err
	}
	id, err := parseID(args, 1)
	if err != nil {
		return err
	}
	fs := newFlagSet("update")
	raw := fs.String("json", "", "リクエストのJSON")
	if err := fs.Parse(args[2:]); err != nil {
		return err
	}
	return r.update(ctx, a, id, *raw)
}

func cmdDelete(ctx context.Context, a *app, args []string) error {
	r, err := lookupResource(args, "delete", func(r resource) bool { return r.del != nil })
	if err != nil {
		return err
	}
	id, err := parseID(args, 1)
	if err != nil {
		return err
	}
	return r.del(ctx, a, id)
}

func cmdReserve(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("reserve")
	req := model.ReservationRequest{}
	fs.IntVar(&req.ProductID, "product", 0, "商品ID")
	fs.IntVar(&req.Quantity, "quantity", 1, "数量")
	fs.StringVar(&req.ReservationDate, "date", "", "予約日(YYYY-MM-DD)")
	fs.StringVar(&req.OperationCode, "code", "", "振込の取引番号")
	message := fs.String("message", "", "メッセージ")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *message != "" {
		req.Message = message
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return printResult(a, a.ctrl.Reservations.Create(ctx, req), "")
}

func cmdPay(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("pay")
	receipt := model.PaymentReceipt{}
	fs.IntVar(&receipt.ReservationID, "reservation", 0, "予約ID")
	fs.StringVar(&receipt.PaymentMethod, "method", "", "支払い方法")
	fs.StringVar(&receipt.ImagePath, "image", "", "振込証明の画像ファイル")
	note := fs.String("note", "", "備考")
	code := fs.String("code", "", "振込の取引番号")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *note != "" {
		receipt.Note = note
	}
	if *code != "" {
		receipt.OperationCode = code
	}
	if err := receipt.Validate(); err != nil {
		return err
	}
	if !a.ctrl.Payments.SubmitReceipt(ctx, receipt) {
		return errors.New("no se pudo enviar el comprobante")
	}
	fmt.Fprintln(a.out, "Comprobante enviado")
	return nil
}

// cmdReview は判断を送信したあと一覧を再取得し、サーバーが決めた状態を表示します
func cmdReview(action model.ReviewAction) command {
	return func(ctx context.Context, a *app, args []string) error {
		id, err := parseID(args, 0)
		if err != nil {
			return err
		}

		var res api.Result[model.PaymentResponse]
		if action == model.ReviewActionConfirm {
			res = a.ctrl.Payments.Confirm(ctx, id)
		} else {
			res = a.ctrl.Payments.Reject(ctx, id)
		}
		if !res.OK() {
			return errors.New(res.Message())
		}

		mine := a.ctrl.Payments.Mine(ctx)
		if !mine.OK() {
			return errors.New(mine.Message())
		}
		for _, p := range mine.Value {
			if p.ID == id {
				return a.print(p)
			}
		}
		return fmt.Errorf("payment %d not found after %s", id, action)
	}
}

func cmdSummary(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("summary")
	status := fs.String("status", model.PaymentStatusAll, "支払いのステータスで絞り込む")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reservations := a.ctrl.Reservations.Mine(ctx)
	if !reservations.OK() {
		return errors.New(reservations.Message())
	}
	out := struct {
		Reservations model.ReservationSummary `json:"reservations"`
		Payments     *int                     `json:"payments,omitempty"`
	}{Reservations: model.SummarizeReservations(reservations.Value)}

	// 事業者のみ支払いの件数を出す
	if a.store.Role(ctx) == model.RoleEntrepreneur {
		payments := a.ctrl.Payments.Mine(ctx)
		if !payments.OK() {
			return errors.New(payments.Message())
		}
		n := len(model.FilterPayments(payments.Value, *status))
		out.Payments = &n
	}
	return a.print(out)
}

func cmdGalleryUpload(ctx context.Context, a *app, args []string) error {
	if len(args) < 1 {
		return errors.New("path is required")
	}
	if !a.ctrl.Gallery.Upload(ctx, args[0]) {
		return errors.New("no se pudo subir la imagen")
	}
	fmt.Fprintln(a.out, "Imagen subida")
	return nil
}

func cmdHomeUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("home-update")
	raw := fs.String("json", "", "リクエストのJSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req, err := decodeRequest[model.HomeRequest](*raw)
	if err != nil {
		return err
	}
	return printResult(a, a.ctrl.Home.Update(ctx, req), "")
}

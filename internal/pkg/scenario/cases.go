package scenario

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/credential"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/identity"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/resource"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/workflow"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

const invalidPassword = "senha_invalida_123"

// Cases lists every case of the serverest suite in execution order.
func Cases() []Case {
	return []Case{
		{Name: "login-standard", Description: "standard account logs in and receives a bearer token", Run: loginStandard},
		{Name: "login-admin-token", Description: "administrator token carries the account email", Run: loginAdminToken},
		{Name: "login-invalid-email", Description: "unknown email is rejected with 401", Run: loginInvalidEmail},
		{Name: "login-invalid-password", Description: "wrong password is rejected with 401", Run: loginInvalidPassword},
		{Name: "product-create", Description: "administrator creates a uniquely named product", Run: productCreate},
		{Name: "product-create-forbidden", Description: "standard account cannot create products", Run: productCreateForbidden},
		{Name: "product-create-invalid-price", Description: "negative price is rejected with a field message", Run: productCreateInvalidPrice},
		{Name: "product-list-by-base-name", Description: "listing by base name resolves a matching product", Run: productListByBaseName},
		{Name: "product-round-trip", Description: "create, locate, update, verify, delete and verify absence of a product", Run: productRoundTrip},
		{Name: "user-lifecycle", Description: "create, locate, read, update and delete an administrator user", Run: userLifecycle},
	}
}

func loginStandard(ctx context.Context, env *Env, r *CaseResult) error {
	cred, err := env.Credentials.Get(credential.Standard)
	if err != nil {
		return err
	}
	resp, err := env.Sessions.Login(ctx, cred)
	if err != nil {
		return err
	}
	r.HTTPStatus, r.Message = resp.HTTPStatus, resp.Message
	r.Check("status is 200", resp.HTTPStatus == http.StatusOK)
	r.Check("success message", resp.Message == serverest.MsgLoginSuccess)
	r.Check("bearer authorization", serverest.IsBearer(resp.Authorization))
	return nil
}

func loginAdminToken(ctx context.Context, env *Env, r *CaseResult) error {
	cred, err := env.Credentials.Get(credential.Administrator)
	if err != nil {
		return err
	}
	token, err := env.Sessions.Authenticate(ctx, cred)
	if err != nil {
		return err
	}
	r.HTTPStatus = http.StatusOK
	r.Check("bearer authorization", serverest.IsBearer(token.Header()))
	claims, err := token.Claims()
	if err != nil {
		return err
	}
	email, _ := claims["email"].(string)
	r.Check("email claim", strings.EqualFold(email, cred.Email))
	return nil
}

func loginInvalidEmail(ctx context.Context, env *Env, r *CaseResult) error {
	cred, err := env.Credentials.Get(credential.Standard)
	if err != nil {
		return err
	}
	cred.Email = fmt.Sprintf("fake_%s@qa.com", env.stamp())
	return expectRejected(ctx, env, cred, r)
}

func loginInvalidPassword(ctx context.Context, env *Env, r *CaseResult) error {
	cred, err := env.Credentials.Get(credential.Standard)
	if err != nil {
		return err
	}
	cred.Password = invalidPassword
	return expectRejected(ctx, env, cred, r)
}

func expectRejected(ctx context.Context, env *Env, cred credential.Credential, r *CaseResult) error {
	resp, err := env.Sessions.Login(ctx, cred)
	if err != nil {
		return err
	}
	r.HTTPStatus, r.Message = resp.HTTPStatus, resp.Message
	r.Check("status is 401", resp.HTTPStatus == http.StatusUnauthorized)
	r.Check("invalid credentials message", serverest.IsInvalidCredentials(resp.Message))
	r.Check("no authorization", resp.Authorization == "")
	return nil
}

func productCreate(ctx context.Context, env *Env, r *CaseResult) error {
	created, err := env.Factory.CreateProduct(ctx, nil)
	if err != nil {
		return err
	}
	r.HTTPStatus, r.Message = http.StatusCreated, serverest.MsgCreated
	r.Check("identifier returned", created.ID != "")
	r.Check("name carries base", strings.HasPrefix(created.Name, env.Factory.ProductBase()+" "))
	r.Note("created product %s", created.ID)
	return env.discardProduct(ctx, created, r)
}

func productCreateForbidden(ctx context.Context, env *Env, r *CaseResult) error {
	token, err := env.Sessions.Standard(ctx)
	if err != nil {
		return err
	}
	payload := env.Factory.ProductTemplate(env.now())
	resp, err := env.Client.CreateProduct(ctx, token.Header(), payload)
	if err != nil {
		return err
	}
	r.HTTPStatus, r.Message = resp.HTTPStatus, resp.Message
	if resp.HTTPStatus == http.StatusCreated {
		r.Note("standard account created product %s", resp.ID)
		env.bestEffortDelete(ctx, resp.ID)
	}
	r.Check("status is 403", resp.HTTPStatus == http.StatusForbidden)
	r.Check("administrator only message", resp.Message == serverest.MsgAdminOnly)
	return nil
}

func productCreateInvalidPrice(ctx context.Context, env *Env, r *CaseResult) error {
	token, err := env.Sessions.Administrator(ctx)
	if err != nil {
		return err
	}
	payload := env.Factory.ProductTemplate(env.now())
	payload["preco"] = -1
	resp, err := env.Client.CreateProduct(ctx, token.Header(), payload)
	if err != nil {
		return err
	}
	r.HTTPStatus, r.Message = resp.HTTPStatus, resp.Fields["preco"]
	if resp.HTTPStatus == http.StatusCreated {
		r.Note("invalid product accepted as %s", resp.ID)
		env.bestEffortDelete(ctx, resp.ID)
	}
	r.Check("status is 400", resp.HTTPStatus == http.StatusBadRequest)
	r.Check("preco field message", resp.Fields["preco"] != "")
	return nil
}

func productListByBaseName(ctx context.Context, env *Env, r *CaseResult) error {
	created, err := env.Factory.CreateProduct(ctx, nil)
	if err != nil {
		return err
	}
	base := env.Factory.ProductBase()
	id, findErr := env.Identity.FindIdentifierByName(ctx, identity.Products, base, identity.MatchPrefix)
	if findErr == nil {
		got, err := env.Client.GetProduct(ctx, id)
		if err == nil && got.HTTPStatus == http.StatusOK {
			r.HTTPStatus = got.HTTPStatus
			r.Check("resolved record name starts with base", strings.HasPrefix(got.Product.Nome, base))
		} else {
			r.Check("resolved record readable", false)
		}
		r.Note("resolved %s for %q", id, base)
	}
	if err := env.discardProduct(ctx, created, r); err != nil && findErr == nil {
		return err
	}
	return findErr
}

func productRoundTrip(ctx context.Context, env *Env, r *CaseResult) error {
	report, err := env.Workflow.ProductRoundTrip(ctx, nil)
	reportSteps(report, r)
	return err
}

func userLifecycle(ctx context.Context, env *Env, r *CaseResult) error {
	report, err := env.Workflow.UserLifecycle(ctx, nil, env.Options.UpdateUser)
	reportSteps(report, r)
	return err
}

func reportSteps(report *workflow.Report, r *CaseResult) {
	if report == nil {
		return
	}
	for _, s := range report.Steps {
		r.Check(s.Name, s.Passed)
		r.Note("%s %s (%s)", s.Name, outcome(s.Passed), s.Duration)
	}
	if report.ID != "" {
		r.Note("record %s %q", report.ID, report.OriginalName)
	}
	if report.Residue {
		r.Check("no residue", false)
	}
}

func outcome(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

// discardProduct locates an owned product by its full name and deletes it.
func (e *Env) discardProduct(ctx context.Context, created *resource.Created, r *CaseResult) error {
	id, err := e.Identity.FindIdentifierByName(ctx, identity.Products, created.Name, identity.MatchPrefix)
	if err != nil {
		return err
	}
	if id != created.ID {
		return errors.WithCode(code.ErrUnexpectedResponse, "product %q resolved to %s, created as %s", created.Name, id, created.ID)
	}
	token, err := e.Sessions.Administrator(ctx)
	if err != nil {
		return err
	}
	resp, err := e.Client.DeleteProduct(ctx, token.Header(), id)
	if err != nil {
		return err
	}
	r.Check("owned product deleted", resp.HTTPStatus == http.StatusOK && resp.Message == serverest.MsgDeleted)
	return nil
}

func (e *Env) bestEffortDelete(ctx context.Context, id string) {
	if id == "" {
		return
	}
	token, err := e.Sessions.Administrator(ctx)
	if err == nil {
		_, err = e.Client.DeleteProduct(ctx, token.Header(), id)
	}
	if err != nil {
		log.L(ctx).Warnw("could not delete stray product", "id", id, "error", err)
	}
}

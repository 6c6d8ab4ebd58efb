package http

import (
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// ConfirmKitchen handles POST /kitchen/confirm. It is the only stage that takes REJECT.
func (s *Server) ConfirmKitchen(ctx echo.Context) error {
	return s.resolveStage(ctx, order.KitchenConfirm)
}

// CompleteKitchen handles POST /kitchen/complete.
func (s *Server) CompleteKitchen(ctx echo.Context) error {
	return s.resolveStage(ctx, order.KitchenComplete)
}

// TakeDelivery handles POST /delivery/take.
func (s *Server) TakeDelivery(ctx echo.Context) error {
	return s.resolveStage(ctx, order.DeliveryTake)
}

// CompleteDelivery handles POST /delivery/complete.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	return s.resolveStage(ctx, order.DeliveryComplete)
}

func (s *Server) resolveStage(ctx echo.Context, stage order.Stage) error {
	who, err := actorOf(ctx)
	if err != nil {
		return err
	}

	var body servers.StageDecision
	if err := bind(ctx, &body); err != nil {
		return err
	}
	token, err := kernel.TokenFromString(body.Token)
	if err != nil {
		return err
	}
	decision := order.Accept
	if body.Decision != nil {
		if decision, err = order.ParseDecision(string(*body.Decision)); err != nil {
			return err
		}
	}

	cmd, err := commands.NewResolveCallbackCommand(token, who, decision, optional(body.Notes), stage)
	if err != nil {
		return err
	}
	result, err := s.h.ResolveCallback.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, statusResponse(result))
}

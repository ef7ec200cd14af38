package inventory

import (
	"fmt"

	"inventario-backend/internal/audit"
	"inventario-backend/internal/auth"
	"inventario-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const entityProduct = "product"

type DeleteRequest struct {
	Keys []string `json:"keys"`
}

type DeleteResponse struct {
	Deleted int `json:"deleted"`
}

// GET /api/productos?q=
func ListProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.SearchProducts(c.Query("q")))
	}
}

// POST /api/productos
func CreateProductHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		p, err := svc.CreateProduct(body)
		if err != nil {
			return err
		}

		userID, userName := auth.CurrentUser(c)
		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityProduct,
			EntityKey:   p.Name,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Producto creado: %s (%d %s)", p.Name, p.Stock, p.Unit),
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// PUT /api/productos/:name
func UpdateProductHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")

		var body ProductPatch
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		before, err := svc.Product(name)
		if err != nil {
			return err
		}
		p, err := svc.UpdateProduct(name, body)
		if err != nil {
			return err
		}

		userID, userName := auth.CurrentUser(c)
		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityProduct,
			EntityKey:   p.Name,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Producto actualizado: %s", p.Name),
			Before:      before,
			After:       p,
		})

		return c.JSON(p)
	}
}

// DELETE /api/productos/:name and DELETE /api/productos {"keys": [...]}
func DeleteProductsHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keys, err := deleteKeys(c)
		if err != nil {
			return err
		}

		removed := make([]models.Product, 0, len(keys))
		for _, k := range keys {
			if p, err := svc.Product(k); err == nil {
				removed = append(removed, p)
			}
		}
		n := svc.DeleteProducts(keys...)

		userID, userName := auth.CurrentUser(c)
		for _, p := range removed {
			_, _ = trail.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  entityProduct,
				EntityKey:   p.Name,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Producto eliminado: %s", p.Name),
				Before:      p,
			})
		}

		return c.JSON(DeleteResponse{Deleted: n})
	}
}

// deleteKeys takes the key from the :key route parameter, or the "keys" list
// of the request body when the route has none.
func deleteKeys(c *fiber.Ctx) ([]string, error) {
	for _, param := range []string{"name", "id"} {
		if k := c.Params(param); k != "" {
			return []string{k}, nil
		}
	}
	var body DeleteRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
	}
	if len(body.Keys) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Debe indicar al menos una clave")
	}
	return body.Keys, nil
}

package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/fourmaq/nfe-robot/internal/domain/entity"
	"github.com/fourmaq/nfe-robot/pkg/logger"
)

// ProductCorrector corrige a origem tributária dos produtos divergentes no
// cadastro do ERP antes da manifestação da nota.
type ProductCorrector struct {
	s   Surface
	nav *Navigator
	log *logger.Logger
}

// NewProductCorrector constrói o corretor.
func NewProductCorrector(s Surface, nav *Navigator, log *logger.Logger) *ProductCorrector {
	return &ProductCorrector{s: s, nav: nav, log: log}
}

// CorrectAll atualiza cada produto divergente no cadastro. A falha de um
// produto aborta a nota inteira: lançamento parcial com origem errada geraria
// imposto errado.
func (c *ProductCorrector) CorrectAll(ctx context.Context, products []entity.ProductOrigin) error {
	if len(products) == 0 {
		return nil
	}

	if err := c.s.WaitLoad(ctx); err != nil {
		return fmt.Errorf("corrigir cadastro de produtos: %w", err)
	}
	for i, product := range products {
		c.log.Info().
			Str("produto", product.Code).
			Int("restantes", len(products)-i).
			Msg("corrigindo origem do produto")

		if !c.nav.OnRoutine(ctx, productTitle, productRoutine) {
			if err := c.accessRegister(ctx); err != nil {
				return fmt.Errorf("acessar cadastro de produtos: %w", err)
			}
		}
		if err := c.search(ctx, product.Code); err != nil {
			return fmt.Errorf("buscar produto %s: %w", product.Code, err)
		}
		if err := c.updateOrigin(ctx, product.Origin); err != nil {
			return fmt.Errorf("atualizar produto %s: %w", product.Code, err)
		}
	}
	return c.s.Sleep(ctx, 2*time.Second)
}

func (c *ProductCorrector) accessRegister(ctx context.Context) error {
	if err := c.nav.OpenModule(ctx, homeMenuModuleStock); err != nil {
		return err
	}
	return c.nav.Sidebar(ctx, productSidebar, productOptionStock, productOptionRegister)
}

func (c *ProductCorrector) search(ctx context.Context, code string) error {
	if err := c.s.WaitLoad(ctx); err != nil {
		return err
	}
	if err := c.s.Click(ctx, productButtonClean); err != nil {
		return err
	}
	if err := c.s.Sleep(ctx, time.Second); err != nil {
		return err
	}
	if err := c.s.Fill(ctx, productFieldCode, code); err != nil {
		return err
	}
	if err := c.s.Click(ctx, productButtonSearch); err != nil {
		return err
	}
	if err := c.s.Sleep(ctx, time.Second); err != nil {
		return err
	}
	return c.s.Click(ctx, productButtonEdit)
}

func (c *ProductCorrector) updateOrigin(ctx context.Context, origin string) error {
	if err := c.s.WaitLoad(ctx); err != nil {
		return err
	}
	if err := c.s.Click(ctx, productTabTax); err != nil {
		return err
	}
	if err := c.s.SelectOption(ctx, productDropdownOrigin, origin); err != nil {
		return err
	}
	return c.s.Click(ctx, productButtonSave)
}

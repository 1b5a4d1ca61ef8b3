package handlers

import (
	"errors"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// caracteres que nunca aparecem numa busca legítima
const forbiddenSearchChars = "<>{}[];\\`"

var registerOnce sync.Once

// RegisterValidators registra as regras customizadas no validador do gin
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = v.RegisterValidation("searchtext", validateSearchText)
	})
	return err
}

func validateSearchText(fl validator.FieldLevel) bool {
	return IsSearchText(fl.Field().String())
}

// IsSearchText informa se o texto pode ser usado como busca
func IsSearchText(s string) bool {
	if strings.ContainsAny(s, forbiddenSearchChars) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) && r != '\t' {
			return false
		}
	}
	return true
}

// bindingMessage traduz erros de validação em mensagens para o cliente
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Parâmetros inválidos"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "max":
		return "Parâmetro " + fe.Field() + " excede o tamanho máximo"
	case "min":
		return "Parâmetro " + fe.Field() + " abaixo do mínimo"
	case "searchtext":
		return "Busca contém caracteres não permitidos"
	default:
		return "Parâmetro " + fe.Field() + " inválido"
	}
}

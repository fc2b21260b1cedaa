package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// uintParam 解析路径参数中的正整数ID
func uintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, apperrors.ErrInvalidParams.WithMessage("参数错误: " + name)
	}
	return uint(v), nil
}

func bindError(err error) error {
	return apperrors.ErrBindError.WithMessage("参数错误: " + err.Error())
}

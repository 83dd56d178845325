package public

import (
	"errors"

	"github.com/yushan-next/user-service/internal/http/response"
	"github.com/yushan-next/user-service/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var authCommonErrorRules = []mappedHandlerError{
	{target: service.ErrEmailRequired, code: response.CodeBadRequest, msg: "email is required"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "password must be at least 8 characters with letters and digits"},
	{target: service.ErrEmailExists, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrUsernameExists, code: response.CodeConflict, msg: "username already taken"},
	{target: service.ErrVerifyCodeInvalid, code: response.CodeBadRequest, msg: "invalid verification code or code expired"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid email or password"},
	{target: service.ErrUserSuspended, code: response.CodeForbidden, msg: "account suspended"},
	{target: service.ErrUserBanned, code: response.CodeForbidden, msg: "account banned"},
}

var refreshErrorRules = []mappedHandlerError{
	{target: service.ErrTokenExpired, code: response.CodeUnauthorized, msg: "token expired"},
	{target: service.ErrTokenInvalid, code: response.CodeUnauthorized, msg: "invalid token"},
	{target: service.ErrWrongTokenType, code: response.CodeUnauthorized, msg: "wrong token type"},
	{target: service.ErrUserMismatch, code: response.CodeUnauthorized, msg: "token does not match user"},
	{target: service.ErrUserSuspended, code: response.CodeForbidden, msg: "account suspended"},
	{target: service.ErrUserBanned, code: response.CodeForbidden, msg: "account banned"},
}

var verifyCodeErrorRules = []mappedHandlerError{
	{target: service.ErrEmailRequired, code: response.CodeBadRequest, msg: "email is required"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrEmailExists, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrAlreadyAuthor, code: response.CodeConflict, msg: "user is already an author"},
	{target: service.ErrVerifyCodeTooFrequent, code: response.CodeTooManyRequests, msg: "verification code requested too frequently"},
	{target: service.ErrEmailServiceDisabled, code: response.CodeInternal, msg: "email service not configured"},
}

var profileErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrUsernameExists, code: response.CodeConflict, msg: "username already taken"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrEmailExists, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrInvalidStatus, code: response.CodeBadRequest, msg: "invalid field value"},
	{target: service.ErrVerifyCodeInvalid, code: response.CodeBadRequest, msg: "invalid verification code or code expired"},
}

var authorErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrAlreadyAuthor, code: response.CodeConflict, msg: "user is already an author"},
	{target: service.ErrEmailRequired, code: response.CodeBadRequest, msg: "email is required"},
	{target: service.ErrVerifyCodeInvalid, code: response.CodeBadRequest, msg: "invalid verification code or code expired"},
	{target: service.ErrVerifyCodeTooFrequent, code: response.CodeTooManyRequests, msg: "verification code requested too frequently"},
}

var libraryErrorRules = []mappedHandlerError{
	{target: service.ErrLibraryNotFound, code: response.CodeNotFound, msg: "library not found"},
	{target: service.ErrNovelAlreadyInLibrary, code: response.CodeConflict, msg: "novel already in library"},
	{target: service.ErrNovelNotInLibrary, code: response.CodeNotFound, msg: "novel not in library"},
	{target: service.ErrInvalidProgress, code: response.CodeBadRequest, msg: "invalid reading progress"},
}

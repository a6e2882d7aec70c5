package service

import "github.com/iamadmin/iamadmin/internal/model"

func requireCaller(caller *model.Caller) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	return nil
}
